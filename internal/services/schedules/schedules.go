package scheduleservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
	"github.com/zanzhit/mediasite_scheduler/internal/services/recurrence"
	"github.com/zanzhit/mediasite_scheduler/internal/storage/lookup"
)

// advanceCreationTime is how many minutes before a recording its presentation is created.
const advanceCreationTime = 7200

type ScheduleService struct {
	log         *slog.Logger
	lookups     Lookups
	modules     ModuleChecker
	resources   ResourceEnsurer
	schedules   ScheduleCreator
	occurrences OccurrenceScheduler
	operator    string
	loc         *time.Location
	now         func() time.Time
}

type Lookups interface {
	Resolve(ctx context.Context, category lookup.Category, name string) (string, error)
	Names(ctx context.Context, category lookup.Category) ([]string, error)
	Refresh(category lookup.Category)
}

type ModuleChecker interface {
	ModuleIDExists(ctx context.Context, moduleID string) (bool, error)
}

type ResourceEnsurer interface {
	EnsureResources(ctx context.Context, req models.ScheduleRequest) (models.Resources, error)
}

type ScheduleCreator interface {
	CreateSchedule(ctx context.Context, schedule models.Schedule) (models.Schedule, error)
}

type OccurrenceScheduler interface {
	ScheduleAll(ctx context.Context, scheduleID string, occurrences []models.Occurrence) []models.OccurrenceResult
	ScheduleSingle(ctx context.Context, scheduleID string, req models.ScheduleRequest, start, end time.Time) models.OccurrenceResult
}

func New(
	log *slog.Logger,
	lookups Lookups,
	modules ModuleChecker,
	resources ResourceEnsurer,
	schedules ScheduleCreator,
	occurrences OccurrenceScheduler,
	operator string,
	loc *time.Location,
) *ScheduleService {
	return &ScheduleService{
		log:         log,
		lookups:     lookups,
		modules:     modules,
		resources:   resources,
		schedules:   schedules,
		occurrences: occurrences,
		operator:    operator,
		loc:         loc,
		now:         time.Now,
	}
}

// ProcessBatch attempts every row and returns one result per row, in order.
// Rows that failed to parse are reported without any remote call.
func (s *ScheduleService) ProcessBatch(ctx context.Context, rows []models.ImportRow) []models.RowResult {
	const op = "service.schedules.ProcessBatch"

	runID := shortuuid.New()

	log := s.log.With(
		slog.String("op", op),
		slog.String("run_id", runID),
	)

	log.Info("processing batch", slog.Int("rows", len(rows)))

	s.lookups.Refresh(lookup.Templates)
	s.lookups.Refresh(lookup.Recorders)

	results := make([]models.RowResult, 0, len(rows))
	failed := 0
	for _, row := range rows {
		var res models.RowResult
		if row.ParseErr != nil {
			res = models.RowResult{
				Name:  row.Request.Name,
				Err:   row.ParseErr,
				Error: row.ParseErr.Error(),
			}
		} else {
			res = s.ProcessRow(ctx, row.Request)
		}

		res.RunID = runID
		res.Line = row.Line
		if res.Err != nil || res.Failed() > 0 {
			failed++
		}

		results = append(results, res)
	}

	log.Info("batch processed", slog.Int("rows", len(rows)), slog.Int("failed", failed))

	return results
}

// ProcessRow validates one request, ensures its resources, creates the
// schedule and its recurrences.
func (s *ScheduleService) ProcessRow(ctx context.Context, req models.ScheduleRequest) models.RowResult {
	const op = "service.schedules.ProcessRow"

	log := s.log.With(
		slog.String("op", op),
		slog.String("name", req.Name),
	)

	res := models.RowResult{Name: req.Name}
	fail := func(err error) models.RowResult {
		res.Err = fmt.Errorf("%s: %w", op, err)
		res.Error = err.Error()

		return res
	}

	ids, err := s.validate(ctx, req)
	if err != nil {
		log.Warn("schedule data rejected", sl.Err(err))

		return fail(err)
	}

	resources, err := s.resources.EnsureResources(ctx, req)
	res.Resources = resources
	if err != nil {
		return fail(err)
	}

	now := s.now()

	schedule, err := s.schedules.CreateSchedule(ctx, models.Schedule{
		Name:                req.Name,
		FolderID:            resources.FolderID,
		TitleType:           TitleType(req.NamingScheme),
		ScheduleTemplateID:  ids.templateID,
		IsUploadAutomatic:   true,
		RecorderID:          ids.recorderID,
		RecorderName:        req.Recorder,
		CreatePresentation:  true,
		LoadPresentation:    true,
		AutoStart:           true,
		AutoStop:            true,
		AdvanceCreationTime: advanceCreationTime,
		NotifyPresenter:     false,
		Description:         fmt.Sprintf("Scheduled by %s on %s using Mediasite Scheduler", s.operator, now.Format("1-2-2006_15-4-5")),
		DeleteInactive:      req.DeleteInactive,
	})
	if err != nil {
		log.Error("failed to create schedule", sl.Err(err))

		return fail(err)
	}
	res.ScheduleID = schedule.ID

	if req.Recurrence == constants.RecurrenceWeekly {
		res.Occurrences = s.occurrences.ScheduleAll(ctx, schedule.ID, recurrence.Occurrences(req, now, s.loc))
	} else {
		start, end := recurrence.Single(req, now, s.loc)
		res.Occurrences = []models.OccurrenceResult{s.occurrences.ScheduleSingle(ctx, schedule.ID, req, start, end)}
	}

	log.Info("schedule created",
		slog.String("schedule_id", schedule.ID),
		slog.Int("occurrences", len(res.Occurrences)),
		slog.Int("failed", res.Failed()),
	)

	return res
}

type resolved struct {
	templateID string
	recorderID string
}

// Validate runs every check that must pass before anything is created.
func (s *ScheduleService) Validate(ctx context.Context, req models.ScheduleRequest) error {
	_, err := s.validate(ctx, req)

	return err
}

func (s *ScheduleService) validate(ctx context.Context, req models.ScheduleRequest) (resolved, error) {
	const op = "service.schedules.Validate"

	if err := req.Validate(); err != nil {
		return resolved{}, fmt.Errorf("%s: %w", op, err)
	}

	if req.Recurrence == constants.RecurrenceWeekly && len(recurrence.Expand(req.StartAt, req.EndAt, req.Weekdays)) == 0 {
		return resolved{}, fmt.Errorf("%s: %w", op, errs.ErrNoOccurrences)
	}

	if req.IncludeModule {
		exists, err := s.modules.ModuleIDExists(ctx, req.ModuleID)
		if err != nil {
			return resolved{}, fmt.Errorf("%s: %w", op, err)
		}
		if exists {
			return resolved{}, fmt.Errorf("%s: %w", op, errs.ErrModuleIDExists)
		}
	}

	var ids resolved
	var err error

	ids.templateID, err = s.lookups.Resolve(ctx, lookup.Templates, req.Template)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return resolved{}, fmt.Errorf("%s: %w", op, s.unknown(ctx, lookup.Templates, errs.ErrUnknownTemplate))
		}

		return resolved{}, fmt.Errorf("%s: %w", op, err)
	}

	ids.recorderID, err = s.lookups.Resolve(ctx, lookup.Recorders, req.Recorder)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return resolved{}, fmt.Errorf("%s: %w", op, s.unknown(ctx, lookup.Recorders, errs.ErrUnknownRecorder))
		}

		return resolved{}, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}

// unknown appends the known names of a category to a lookup miss.
func (s *ScheduleService) unknown(ctx context.Context, category lookup.Category, sentinel error) error {
	names, err := s.lookups.Names(ctx, category)
	if err != nil || len(names) == 0 {
		return sentinel
	}

	return fmt.Errorf("%w (known: %s)", sentinel, strings.Join(names, ", "))
}

// TitleType translates a naming scheme label into the platform title type.
func TitleType(label string) string {
	switch label {
	case "Record Date":
		return constants.TitleTypeAirDateTime
	case "Incremental Number":
		return constants.TitleTypeNameAndNumber
	}

	return constants.TitleTypeNone
}
