package auth

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleBarber   Role = "barber"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleBarber:
		return true
	}
	return false
}
