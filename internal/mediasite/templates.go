package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func (c *Client) Templates(ctx context.Context) ([]models.Template, error) {
	const op = "mediasite.Templates"

	c.log.Info("gathering templates", slog.String("op", op))

	resp, err := c.Call(ctx, Get, "Templates", url.Values{"$top": {"200"}}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.Template]
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Value, nil
}
