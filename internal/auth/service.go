package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// UserStore is the identity side of the storage collaborator. Missing users
// are reported as domain.ErrNotFound and duplicate emails as ErrEmailTaken.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkUserVerified(ctx context.Context, id uint) error
}

// Notifier delivers the signup confirmation link.
type Notifier interface {
	SendVerification(ctx context.Context, to, name, token string) error
}

type Service struct {
	users       UserStore
	tokens      *TokenManager
	sessions    SessionStore
	notifier    Notifier
	checkDomain func(email string) bool
}

func NewService(users UserStore, tokens *TokenManager, sessions SessionStore, notifier Notifier) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		sessions:    sessions,
		notifier:    notifier,
		checkDomain: validators.IsEmailDomainValid,
	}
}

// WithDomainCheck replaces the MX/A lookup used on signup.
func (s *Service) WithDomainCheck(fn func(email string) bool) *Service {
	s.checkDomain = fn
	return s
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type Session struct {
	Token  string
	Claims *Claims
	User   *models.User
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers an unverified customer and sends the confirmation token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if s.checkDomain != nil && !s.checkDomain(email) {
		return nil, ErrInvalidEmailDomain
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token := uuid.NewString()
	user := &models.User{
		Name:              strings.TrimSpace(in.Name),
		Email:             email,
		PasswordHash:      hash,
		Role:              string(RoleCustomer),
		IsVerified:        false,
		VerificationToken: &token,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendVerification(ctx, user.Email, user.Name, token); err != nil {
			// the account exists; the user can ask support to resend
			slog.ErrorContext(ctx, "verification email failed", "user_id", user.ID, "err", err)
		}
	}

	return user, nil
}

// CreateStaff registers a pre-verified admin or barber account.
func (s *Service) CreateStaff(ctx context.Context, in SignupInput, role Role) (*models.User, error) {
	user, err := NewStaffUser(in, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin unless an account with that email
// already exists. Empty credentials do nothing.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	admin, err := s.CreateStaff(ctx, SignupInput{Name: "Admin", Email: email, Password: password}, RoleAdmin)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "admin account created", "user_id", admin.ID, "email", admin.Email)
	return nil
}

// NewStaffUser builds, without storing, a verified account for an admin or
// a barber.
func NewStaffUser(in SignupInput, role Role) (*models.User, error) {
	if role != RoleAdmin && role != RoleBarber {
		return nil, fmt.Errorf("create staff: unsupported role %q", role)
	}

	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         string(role),
		IsVerified:   true,
	}, nil
}

// Confirm consumes a verification token. Tokens are single use.
func (s *Service) Confirm(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindUserByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := s.users.MarkUserVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = nil
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, Claims: claims, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	return s.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate validates a bearer token and rejects revoked sessions.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *Service) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
