package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func (c *Client) CreateModule(ctx context.Context, module models.Module) (models.Module, error) {
	const op = "mediasite.CreateModule"

	c.log.Info("creating module", slog.String("op", op), slog.String("name", module.Name), slog.String("module_id", module.ModuleID))

	resp, err := c.Call(ctx, Post, "Modules", nil, module)
	if err != nil {
		return models.Module{}, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Module
	if err := resp.Decode(&created); err != nil {
		return models.Module{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// ModuleIDExists reports whether an external module id is already registered.
func (c *Client) ModuleIDExists(ctx context.Context, moduleID string) (bool, error) {
	const op = "mediasite.ModuleIDExists"

	resp, err := c.Call(ctx, Get, "Modules", url.Values{
		"$filter": {filter("ModuleId eq %s", moduleID)},
	}, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.Module]
	if err := resp.Decode(&out); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return len(out.Value) > 0, nil
}

// AddAssociation links a module (by its platform id) to a catalog or presentation.
func (c *Client) AddAssociation(ctx context.Context, moduleID, mediasiteID string) error {
	const op = "mediasite.AddAssociation"

	c.log.Info("associating module", slog.String("op", op), slog.String("module", moduleID), slog.String("mediasite_id", mediasiteID))

	body := map[string]string{"MediasiteId": mediasiteID}
	if _, err := c.Call(ctx, Post, entity("Modules", moduleID)+"/AddAssociation", nil, body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
