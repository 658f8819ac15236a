// Package users handles account registration and credential checks.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/ports"
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6
	// MaxPasswordLength is the bcrypt input limit, in bytes.
	MaxPasswordLength = 72
)

var (
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

// Registration is the sign-up form.
type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type Service struct {
	store  ports.UserStore
	logger *log.Logger
	now    func() time.Time
	cost   int

	mu sync.Mutex
}

func NewService(store ports.UserStore, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithComponent(log.ComponentUsers),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

func (reg Registration) validate() error {
	if len([]rune(strings.TrimSpace(reg.Name))) < MinNameLength {
		return &core.ValidationError{Field: "name", Err: ErrNameTooShort}
	}
	if err := core.ValidateEmail(reg.Email); err != nil {
		return &core.ValidationError{Field: "email", Err: err}
	}
	if len(reg.Password) < MinPasswordLength {
		return &core.ValidationError{Field: "password", Err: ErrPasswordTooShort}
	}
	if len(reg.Password) > MaxPasswordLength {
		return &core.ValidationError{Field: "password", Err: ErrPasswordTooLong}
	}
	if reg.Password != reg.ConfirmPassword {
		return &core.ValidationError{Field: "confirmPassword", Err: ErrPasswordMismatch}
	}
	return nil
}

// Register creates an account. Emails are unique ignoring case; a
// duplicate returns core.ErrUserExists and writes nothing. The returned
// user carries no password hash.
func (s *Service) Register(ctx context.Context, reg Registration) (core.User, error) {
	if err := reg.validate(); err != nil {
		return core.User{}, err
	}
	email := strings.TrimSpace(reg.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return core.User{}, fmt.Errorf("load users: %w", err)
	}
	if _, ok := findByEmail(users, email); ok {
		return core.User{}, core.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := core.User{
		ID:           core.NewID(),
		Name:         strings.TrimSpace(reg.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.SaveUsers(ctx, append(users, u)); err != nil {
		return core.User{}, fmt.Errorf("save users: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, u.ID)
	return public(u), nil
}

// Authenticate checks email and password. Unknown email and wrong
// password both return core.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	s.mu.Lock()
	users, err := s.store.LoadUsers(ctx)
	s.mu.Unlock()
	if err != nil {
		return core.User{}, fmt.Errorf("load users: %w", err)
	}

	u, ok := findByEmail(users, strings.TrimSpace(email))
	if !ok {
		return core.User{}, core.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.DebugContext(ctx, "Login rejected", log.FieldUserID, u.ID)
		return core.User{}, core.ErrInvalidCredentials
	}
	return public(u), nil
}

func findByEmail(users []core.User, email string) (core.User, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return core.User{}, false
}

func public(u core.User) core.User {
	u.PasswordHash = ""
	return u
}
