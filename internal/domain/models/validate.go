package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(weekdaysSelected, ScheduleRequest{})

	return v
}

func weekdaysSelected(sl validator.StructLevel) {
	req := sl.Current().Interface().(ScheduleRequest)

	if req.Recurrence == constants.RecurrenceWeekly && !req.Weekdays.Any() {
		sl.ReportError(req.Weekdays, "Weekdays", "Weekdays", "weekdays", "")
	}
}

// Validate checks the request invariants. Every failure wraps errs.ErrValidation.
func (r ScheduleRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}

	for _, fe := range verrs {
		switch fe.Field() {
		case "CatalogName":
			return errs.ErrNoCatalogName
		case "ModuleID":
			return errs.ErrNoModuleID
		case "EndAt", "Duration":
			return errs.ErrInvalidTimeRange
		case "Weekdays":
			return errs.ErrNoOccurrences
		}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.ActualTag()))
	}

	return fmt.Errorf("%w: invalid fields %s", errs.ErrValidation, strings.Join(fields, ", "))
}
