package occurrenceservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
	"github.com/zanzhit/mediasite_scheduler/internal/services/recurrence"
)

type Scheduler struct {
	log     *slog.Logger
	creator RecurrenceCreator
}

type RecurrenceCreator interface {
	CreateRecurrence(ctx context.Context, scheduleID string, recurrence models.Recurrence) (models.Recurrence, error)
}

func New(log *slog.Logger, creator RecurrenceCreator) *Scheduler {
	return &Scheduler{
		log:     log,
		creator: creator,
	}
}

// ScheduleAll creates one one-time recurrence per occurrence, in order. A
// failed occurrence is recorded in its slot and the remaining ones are still
// submitted. Nothing is rolled back.
func (s *Scheduler) ScheduleAll(ctx context.Context, scheduleID string, occurrences []models.Occurrence) []models.OccurrenceResult {
	const op = "service.occurrences.ScheduleAll"

	log := s.log.With(
		slog.String("op", op),
		slog.String("schedule_id", scheduleID),
	)

	log.Info("scheduling occurrences", slog.Int("count", len(occurrences)))

	results := make([]models.OccurrenceResult, len(occurrences))
	for i, o := range occurrences {
		results[i].Start = o.Start

		if err := ctx.Err(); err != nil {
			results[i].Err = fmt.Errorf("%s: %w", op, err)
			results[i].Error = results[i].Err.Error()

			continue
		}

		created, err := s.creator.CreateRecurrence(ctx, scheduleID, models.Recurrence{
			MediasiteID:         scheduleID,
			RecordDuration:      durationMillis(o.Duration),
			StartRecordDateTime: recurrence.Wire(o.Start),
			RecurrencePattern:   constants.PatternNone,
		})
		if err != nil {
			log.Error("failed to create recurrence", slog.String("start", recurrence.Wire(o.Start)), sl.Err(err))

			results[i].Err = fmt.Errorf("%s: %w", op, err)
			results[i].Error = err.Error()

			continue
		}

		results[i].RecurrenceID = created.ID
	}

	return results
}

// ScheduleSingle creates the one recurrence of a one-time request.
func (s *Scheduler) ScheduleSingle(ctx context.Context, scheduleID string, req models.ScheduleRequest, start, end time.Time) models.OccurrenceResult {
	const op = "service.occurrences.ScheduleSingle"

	log := s.log.With(
		slog.String("op", op),
		slog.String("schedule_id", scheduleID),
	)

	result := models.OccurrenceResult{Start: start}

	created, err := s.creator.CreateRecurrence(ctx, scheduleID, models.Recurrence{
		MediasiteID:         scheduleID,
		RecordDuration:      durationMillis(req.Duration),
		StartRecordDateTime: recurrence.Wire(start),
		EndRecordDateTime:   recurrence.Wire(end),
		RecurrencePattern:   constants.PatternNone,
		RecurrenceFrequency: frequency(req.RecurrenceFrequency),
		DaysOfTheWeek:       req.Weekdays.Pattern(),
	})
	if err != nil {
		log.Error("failed to create recurrence", sl.Err(err))

		result.Err = fmt.Errorf("%s: %w", op, err)
		result.Error = err.Error()

		return result
	}

	log.Info("recurrence created", slog.String("recurrence_id", created.ID))
	result.RecurrenceID = created.ID

	return result
}

func durationMillis(minutes int) int64 {
	return int64(minutes) * 60 * 1000
}

func frequency(f int) int {
	if f <= 0 {
		return 1
	}

	return f
}
