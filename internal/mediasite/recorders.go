package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func (c *Client) Recorders(ctx context.Context) ([]models.Recorder, error) {
	const op = "mediasite.Recorders"

	c.log.Info("gathering recorders", slog.String("op", op))

	resp, err := c.Call(ctx, Get, "Recorders", url.Values{"$top": {"100"}}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.Recorder]
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Value, nil
}

// RecorderStatus returns the live state of a recorder, e.g. Idle or Recording.
func (c *Client) RecorderStatus(ctx context.Context, recorder models.Recorder) (models.RecorderStatus, error) {
	const op = "mediasite.RecorderStatus"

	resp, err := c.Call(ctx, Get, entity("Recorders", recorder.ID)+"/Status", nil, nil)
	if err != nil {
		return models.RecorderStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	var status models.RecorderStatus
	if err := resp.Decode(&status); err != nil {
		return models.RecorderStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	status.Name = recorder.Name
	status.RecorderID = recorder.ID

	return status, nil
}

func (c *Client) ScheduledRecordingTimes(ctx context.Context, recorderID string) ([]models.ScheduledRecording, error) {
	const op = "mediasite.ScheduledRecordingTimes"

	c.log.Info("gathering scheduled recordings", slog.String("op", op), slog.String("recorder_id", recorderID))

	resp, err := c.Call(ctx, Get, entity("Recorders", recorderID)+"/ScheduledRecordingTimes", url.Values{"$top": {"100"}}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.ScheduledRecording]
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Value, nil
}
