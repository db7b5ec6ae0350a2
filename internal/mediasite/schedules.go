package mediasite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func (c *Client) CreateSchedule(ctx context.Context, schedule models.Schedule) (models.Schedule, error) {
	const op = "mediasite.CreateSchedule"

	c.log.Info("creating schedule", slog.String("op", op), slog.String("name", schedule.Name), slog.String("folder_id", schedule.FolderID))

	resp, err := c.Call(ctx, Post, "Schedules", nil, schedule)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Schedule
	if err := resp.Decode(&created); err != nil {
		return models.Schedule{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (c *Client) Schedule(ctx context.Context, scheduleID string) (models.Schedule, error) {
	const op = "mediasite.Schedule"

	resp, err := c.Call(ctx, Get, entity("Schedules", scheduleID), nil, nil)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%s: %w", op, err)
	}

	var schedule models.Schedule
	if err := resp.Decode(&schedule); err != nil {
		return models.Schedule{}, fmt.Errorf("%s: %w", op, err)
	}

	return schedule, nil
}

func (c *Client) CreateRecurrence(ctx context.Context, scheduleID string, recurrence models.Recurrence) (models.Recurrence, error) {
	const op = "mediasite.CreateRecurrence"

	resp, err := c.Call(ctx, Post, entity("Schedules", scheduleID)+"/Recurrences", nil, recurrence)
	if err != nil {
		return models.Recurrence{}, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Recurrence
	if err := resp.Decode(&created); err != nil {
		return models.Recurrence{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, scheduleID string) error {
	const op = "mediasite.DeleteSchedule"

	c.log.Info("deleting schedule", slog.String("op", op), slog.String("schedule_id", scheduleID))

	if _, err := c.Call(ctx, Delete, entity("Schedules", scheduleID), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
