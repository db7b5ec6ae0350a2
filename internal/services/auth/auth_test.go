package authservice

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zanzhit/mediasite_scheduler/internal/config"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	jwtmid "github.com/zanzhit/mediasite_scheduler/internal/lib/jwt"
	operatorstorage "github.com/zanzhit/mediasite_scheduler/internal/storage/operators"
)

const secret = "test-secret"

func newService(t *testing.T) *AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	operators := operatorstorage.New([]config.Operator{
		{Email: "Ops@Example.edu", Name: "Ops", PasswordHash: string(hash)},
	})

	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), operators, time.Hour, secret)
}

func TestLogin(t *testing.T) {
	s := newService(t)

	token, err := s.Login("ops@example.edu", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	operator, err := jwtmid.ParseToken(token, secret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if operator.Email != "ops@example.edu" || operator.Name != "Ops" {
		t.Errorf("operator = %+v", operator)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newService(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown operator", email: "nobody@example.edu", password: "hunter22"},
		{name: "wrong password", email: "ops@example.edu", password: "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(tt.email, tt.password)
			if !errors.Is(err, errs.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
