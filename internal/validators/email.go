package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// IsEmailDomainValid reports whether the address parses and its domain
// resolves to an MX or A/AAAA record.
func IsEmailDomainValid(email string) bool {
	domain, ok := emailDomain(email)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.DefaultResolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

func emailDomain(email string) (string, bool) {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", false
	}

	at := strings.LastIndex(addr.Address, "@")
	if at < 0 || at == len(addr.Address)-1 {
		return "", false
	}
	return addr.Address[at+1:], true
}
