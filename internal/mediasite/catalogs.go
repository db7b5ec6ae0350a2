package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func (c *Client) CreateCatalog(ctx context.Context, catalog models.Catalog) (models.Catalog, error) {
	const op = "mediasite.CreateCatalog"

	c.log.Info("creating catalog", slog.String("op", op), slog.String("name", catalog.Name), slog.String("folder_id", catalog.LinkedFolderID))

	resp, err := c.Call(ctx, Post, "Catalogs", nil, catalog)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Catalog
	if err := resp.Decode(&created); err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// EnableCatalogDownloads allows presentation downloads. The platform answers 204 on success.
func (c *Client) EnableCatalogDownloads(ctx context.Context, catalogID string) error {
	const op = "mediasite.EnableCatalogDownloads"

	c.log.Info("enabling catalog downloads", slog.String("op", op), slog.String("catalog_id", catalogID))

	return c.patchCatalogSettings(ctx, op, catalogID, map[string]string{"AllowPresentationDownload": "True"})
}

func (c *Client) DisableCatalogLinks(ctx context.Context, catalogID string) error {
	const op = "mediasite.DisableCatalogLinks"

	c.log.Info("disabling catalog links", slog.String("op", op), slog.String("catalog_id", catalogID))

	return c.patchCatalogSettings(ctx, op, catalogID, map[string]string{"AllowCatalogLinks": "False"})
}

func (c *Client) patchCatalogSettings(ctx context.Context, op, catalogID string, settings map[string]string) error {
	if _, err := c.Call(ctx, Patch, entity("Catalogs", catalogID)+"/Settings", nil, settings); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) FolderCatalogs(ctx context.Context, folderID string) ([]models.Catalog, error) {
	const op = "mediasite.FolderCatalogs"

	resp, err := c.Call(ctx, Get, "Catalogs", url.Values{
		"$top":    {"600"},
		"$filter": {filter("LinkedFolderId eq %s", folderID)},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.Catalog]
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// the filter is not always honored by the platform
	catalogs := out.Value[:0]
	for _, cat := range out.Value {
		if cat.LinkedFolderID == folderID {
			catalogs = append(catalogs, cat)
		}
	}

	return catalogs, nil
}

func (c *Client) DeleteCatalog(ctx context.Context, catalogID string) error {
	const op = "mediasite.DeleteCatalog"

	c.log.Info("deleting catalog", slog.String("op", op), slog.String("catalog_id", catalogID))

	if _, err := c.Call(ctx, Delete, entity("Catalogs", catalogID), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
