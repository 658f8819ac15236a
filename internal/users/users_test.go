package users

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type fakeStore struct {
	users   []core.User
	saves   int
	saveErr error
}

func (f *fakeStore) LoadUsers(context.Context) ([]core.User, error) {
	return slices.Clone(f.users), nil
}

func (f *fakeStore) SaveUsers(_ context.Context, us []core.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.users = slices.Clone(us)
	f.saves++
	return nil
}

func newTestService(store *fakeStore) *Service {
	s := NewService(store, log.Discard())
	s.cost = bcrypt.MinCost
	s.now = func() time.Time { return time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC) }
	return s
}

func validRegistration() Registration {
	return Registration{Name: " Ada ", Email: "Ada@Example.com", Password: "secret1", ConfirmPassword: "secret1"}
}

func TestRegister(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(store)

	u, err := s.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == "" || u.Name != "Ada" || u.PasswordHash != "" {
		t.Errorf("unexpected returned user: %+v", u)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(store.users))
	}
	stored := store.users[0]
	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Error("password must be stored hashed")
	}
	if !stored.CreatedAt.Equal(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", stored.CreatedAt)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Registration)
		field string
		err   error
	}{
		{"short name", func(r *Registration) { r.Name = " A " }, "name", ErrNameTooShort},
		{"bad email", func(r *Registration) { r.Email = "ada@" }, "email", core.ErrInvalidEmail},
		{"short password", func(r *Registration) { r.Password, r.ConfirmPassword = "abc", "abc" }, "password", ErrPasswordTooShort},
		{"long password", func(r *Registration) {
			r.Password = strings.Repeat("p", MaxPasswordLength+1)
			r.ConfirmPassword = r.Password
		}, "password", ErrPasswordTooLong},
		{"multibyte password over the byte limit", func(r *Registration) {
			r.Password = strings.Repeat("é", 40)
			r.ConfirmPassword = r.Password
		}, "password", ErrPasswordTooLong},
		{"mismatch", func(r *Registration) { r.ConfirmPassword = "secret2" }, "confirmPassword", ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			reg := validRegistration()
			tt.edit(&reg)
			_, err := newTestService(store).Register(context.Background(), reg)
			var ve *core.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field || !errors.Is(err, tt.err) {
				t.Fatalf("expected %s validation error %v, got %v", tt.field, tt.err, err)
			}
			if store.saves != 0 {
				t.Error("invalid registration must not be stored")
			}
		})
	}
}

func TestRegisterDuplicateIgnoresCase(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(store)
	if _, err := s.Register(context.Background(), validRegistration()); err != nil {
		t.Fatal(err)
	}

	dup := validRegistration()
	dup.Email = "ADA@example.COM"
	if _, err := s.Register(context.Background(), dup); !errors.Is(err, core.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if store.saves != 1 || len(store.users) != 1 {
		t.Errorf("duplicate must not write: saves=%d users=%d", store.saves, len(store.users))
	}
}

func TestRegisterSaveError(t *testing.T) {
	boom := errors.New("disk full")
	_, err := newTestService(&fakeStore{saveErr: boom}).Register(context.Background(), validRegistration())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(&fakeStore{})
	if _, err := s.Register(context.Background(), validRegistration()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "ada@example.com", "secret1", nil},
		{"email case and spaces", "  ADA@EXAMPLE.COM ", "secret1", nil},
		{"wrong password", "ada@example.com", "secret2", core.ErrInvalidCredentials},
		{"unknown email", "bob@example.com", "secret1", core.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.Authenticate(context.Background(), tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && (u.Name != "Ada" || u.PasswordHash != "") {
				t.Errorf("unexpected user %+v", u)
			}
		})
	}
}
