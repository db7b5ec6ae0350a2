package authservice

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	jwtmid "github.com/zanzhit/mediasite_scheduler/internal/lib/jwt"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
)

type AuthService struct {
	secret           string
	tokenTTL         time.Duration
	log              *slog.Logger
	operatorProvider OperatorProvider
}

type OperatorProvider interface {
	Operator(email string) (models.Operator, error)
}

func New(log *slog.Logger, operatorProvider OperatorProvider, tokenTTL time.Duration, secret string) *AuthService {
	return &AuthService{
		secret:           secret,
		tokenTTL:         tokenTTL,
		log:              log,
		operatorProvider: operatorProvider,
	}
}

func (s *AuthService) Login(email, password string) (string, error) {
	const op = "service.auth.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login operator")

	operator, err := s.operatorProvider.Operator(email)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			log.Warn("operator not found", sl.Err(err))

			return "", fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
		}

		log.Error("failed to get operator", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(operator.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}

	log.Info("operator logged in successfully")

	token, err := jwtmid.NewToken(operator, s.tokenTTL, s.secret)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}
