package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func (c *Client) FolderPresentations(ctx context.Context, folderID string) ([]models.Presentation, error) {
	const op = "mediasite.FolderPresentations"

	resp, err := c.Call(ctx, Get, entity("Folders", folderID)+"/Presentations", url.Values{"$top": {"500"}}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.Presentation]
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Value, nil
}

func (c *Client) DeletePresentation(ctx context.Context, presentationID string) error {
	const op = "mediasite.DeletePresentation"

	c.log.Info("deleting presentation", slog.String("op", op), slog.String("presentation_id", presentationID))

	if _, err := c.Call(ctx, Delete, entity("Presentations", presentationID), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
