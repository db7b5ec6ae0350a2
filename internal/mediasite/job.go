package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

// AwaitJob polls a job link until the job reaches a terminal status. It gives
// up after the configured number of attempts (0 means unlimited) or when ctx
// is done. A response without a Status field ends polling immediately.
func (c *Client) AwaitJob(ctx context.Context, jobLink string) (models.Job, error) {
	const op = "mediasite.AwaitJob"

	log := c.log.With(
		slog.String("op", op),
		slog.String("job", jobLink),
	)

	for attempt := 1; c.maxAttempts <= 0 || attempt <= c.maxAttempts; attempt++ {
		resp, err := c.GetJob(ctx, jobLink)
		if err != nil {
			return models.Job{}, fmt.Errorf("%s: %w", op, err)
		}

		var job models.Job
		if err := resp.Decode(&job); err != nil {
			return models.Job{}, fmt.Errorf("%s: %w: %v", op, errs.ErrJobUnexpected, err)
		}

		switch job.Status {
		case constants.JobSuccessful:
			log.Info("job was successful")

			return job, nil
		case constants.JobFailed, constants.JobCancelled, constants.JobDisabled:
			log.Error("job did not complete successfully", slog.String("status", job.Status), slog.String("message", job.StatusMessage))

			return job, fmt.Errorf("%s: %w: %s", op, errs.ErrJobFailed, job)
		case "":
			return job, fmt.Errorf("%s: %w", op, errs.ErrJobUnexpected)
		}

		log.Info("waiting for job to complete", slog.String("status", job.Status), slog.Int("attempt", attempt))

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()

			return job, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	return models.Job{}, fmt.Errorf("%s: %w after %d attempts", op, errs.ErrJobTimeout, c.maxAttempts)
}
