package operatorstorage

import (
	"fmt"
	"strings"

	"github.com/zanzhit/mediasite_scheduler/internal/config"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

// OperatorStorage serves operator accounts declared in the config file.
type OperatorStorage struct {
	operators map[string]models.Operator
}

func New(operators []config.Operator) *OperatorStorage {
	s := &OperatorStorage{operators: make(map[string]models.Operator, len(operators))}

	for _, o := range operators {
		email := strings.ToLower(strings.TrimSpace(o.Email))
		s.operators[email] = models.Operator{
			Email:    email,
			Name:     o.Name,
			PassHash: []byte(o.PasswordHash),
		}
	}

	return s
}

func (s *OperatorStorage) Operator(email string) (models.Operator, error) {
	const op = "storage.operators.Operator"

	o, ok := s.operators[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.Operator{}, fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}

	return o, nil
}
