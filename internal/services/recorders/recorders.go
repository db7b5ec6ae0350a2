package recorderservice

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
)

type RecorderService struct {
	log      *slog.Logger
	provider RecorderProvider
	ignore   []string
}

type RecorderProvider interface {
	Recorders(ctx context.Context) ([]models.Recorder, error)
	RecorderStatus(ctx context.Context, recorder models.Recorder) (models.RecorderStatus, error)
	ScheduledRecordingTimes(ctx context.Context, recorderID string) ([]models.ScheduledRecording, error)
	Schedule(ctx context.Context, scheduleID string) (models.Schedule, error)
}

func New(log *slog.Logger, provider RecorderProvider, ignore []string) *RecorderService {
	return &RecorderService{
		log:      log,
		provider: provider,
		ignore:   ignore,
	}
}

// Statuses reports the state of every recorder not on the ignore list.
func (s *RecorderService) Statuses(ctx context.Context) ([]models.RecorderStatus, error) {
	const op = "service.recorders.Statuses"

	log := s.log.With(slog.String("op", op))

	recorders, err := s.provider.Recorders(ctx)
	if err != nil {
		log.Error("failed to get recorders", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	statuses := make([]models.RecorderStatus, 0, len(recorders))
	for _, r := range recorders {
		if slices.Contains(s.ignore, r.Name) {
			continue
		}

		status, err := s.provider.RecorderStatus(ctx, r)
		if err != nil {
			log.Error("failed to get recorder status", slog.String("recorder", r.Name), sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// ScheduledRecordings lists the upcoming recordings of one recorder with the
// name of the schedule each belongs to.
func (s *RecorderService) ScheduledRecordings(ctx context.Context, recorderName string) ([]models.UpcomingRecording, error) {
	const op = "service.recorders.ScheduledRecordings"

	log := s.log.With(
		slog.String("op", op),
		slog.String("recorder", recorderName),
	)

	recorders, err := s.provider.Recorders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := slices.IndexFunc(recorders, func(r models.Recorder) bool { return r.Name == recorderName })
	if idx < 0 {
		return nil, fmt.Errorf("%s: recorder %q: %w", op, recorderName, errs.ErrNotFound)
	}
	recorder := recorders[idx]

	slots, err := s.provider.ScheduledRecordingTimes(ctx, recorder.ID)
	if err != nil {
		log.Error("failed to get scheduled recordings", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make(map[string]string)
	out := make([]models.UpcomingRecording, 0, len(slots))
	for _, slot := range slots {
		name, ok := names[slot.ScheduleID]
		if !ok {
			schedule, err := s.provider.Schedule(ctx, slot.ScheduleID)
			if err != nil {
				log.Error("failed to get schedule", slog.String("schedule_id", slot.ScheduleID), sl.Err(err))

				return nil, fmt.Errorf("%s: %w", op, err)
			}
			name = schedule.Name
			names[slot.ScheduleID] = name
		}

		out = append(out, models.UpcomingRecording{
			Title:     name,
			Location:  recorder.Name,
			Cancelled: slot.IsExcluded,
			ID:        slot.ScheduleID,
			Start:     slot.StartTime + "Z",
			End:       slot.EndTime + "Z",
			Duration:  slot.DurationInMinutes,
		})
	}

	return out, nil
}
