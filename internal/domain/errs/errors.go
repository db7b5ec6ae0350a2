package errs

import (
	"errors"
	"fmt"
)

var (
	ErrTransport = errors.New("transport failure")
	ErrRemote    = errors.New("remote error")
	ErrNotFound  = errors.New("not found")

	ErrJobFailed     = errors.New("job did not complete successfully")
	ErrJobTimeout    = errors.New("job did not reach a terminal status in time")
	ErrJobUnexpected = errors.New("unexpected job status response")

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrValidation = errors.New("validation failed")
)

var (
	ErrNoCatalogName    = fmt.Errorf("%w: submitted schedule data has no catalog name", ErrValidation)
	ErrNoOccurrences    = fmt.Errorf("%w: submitted schedule data does not contain at least one occurrence", ErrValidation)
	ErrNoModuleID       = fmt.Errorf("%w: no module id specified", ErrValidation)
	ErrModuleIDExists   = fmt.Errorf("%w: submitted module id already exists", ErrValidation)
	ErrUnknownTemplate  = fmt.Errorf("%w: submitted template name does not exist", ErrValidation)
	ErrUnknownRecorder  = fmt.Errorf("%w: submitted recorder name does not exist", ErrValidation)
	ErrInvalidTimeRange = fmt.Errorf("%w: end time must be after start time", ErrValidation)
)
