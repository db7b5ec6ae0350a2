package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

// usersFolder is present on most installations; its parent is the root folder.
const usersFolder = "Mediasite Users"

func (c *Client) RootFolderID(ctx context.Context) (string, error) {
	const op = "mediasite.RootFolderID"

	c.log.Info("gathering root folder id", slog.String("op", op))

	folders, err := c.folders(ctx, url.Values{
		"$filter": {filter("Name eq %s and Recycled eq false", usersFolder)},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(folders) == 0 {
		return "", fmt.Errorf("%s: %q folder: %w", op, usersFolder, errs.ErrNotFound)
	}

	return folders[0].ParentFolderID, nil
}

// FindFolder looks up a non-recycled folder by name under a parent.
func (c *Client) FindFolder(ctx context.Context, name, parentID string) (models.Folder, bool, error) {
	const op = "mediasite.FindFolder"

	c.log.Info("searching for folder", slog.String("op", op), slog.String("name", name), slog.String("parent_id", parentID))

	folders, err := c.folders(ctx, url.Values{
		"$filter": {filter("Name eq %s and ParentFolderId eq %s and Recycled eq false", name, parentID)},
	})
	if err != nil {
		return models.Folder{}, false, fmt.Errorf("%s: %w", op, err)
	}

	for _, f := range folders {
		if f.Name == name {
			return f, true, nil
		}
	}

	return models.Folder{}, false, nil
}

func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (models.Folder, error) {
	const op = "mediasite.CreateFolder"

	c.log.Info("creating folder", slog.String("op", op), slog.String("name", name), slog.String("parent_id", parentID))

	body := map[string]string{
		"Name":           name,
		"Description":    "",
		"ParentFolderId": parentID,
	}

	resp, err := c.Call(ctx, Post, "Folders", nil, body)
	if err != nil {
		return models.Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	var folder models.Folder
	if err := resp.Decode(&folder); err != nil {
		return models.Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	return folder, nil
}

func (c *Client) ChildFolders(ctx context.Context, parentID string) ([]models.Folder, error) {
	const op = "mediasite.ChildFolders"

	folders, err := c.folders(ctx, url.Values{
		"$top":    {"100"},
		"$filter": {filter("ParentFolderId eq %s and Recycled eq false", parentID)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return folders, nil
}

// Descendants walks the folder tree below parentID breadth first.
func (c *Client) Descendants(ctx context.Context, parentID string) ([]models.Folder, error) {
	var out []models.Folder

	queue := []string{parentID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		children, err := c.ChildFolders(ctx, id)
		if err != nil {
			return out, err
		}

		for _, child := range children {
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}

	return out, nil
}

// DeleteFolder starts a folder deletion job and returns its job link.
func (c *Client) DeleteFolder(ctx context.Context, id string) (string, error) {
	const op = "mediasite.DeleteFolder"

	c.log.Info("deleting folder", slog.String("op", op), slog.String("folder_id", id))

	resp, err := c.Call(ctx, Post, entity("Folders", id)+"/DeleteFolder", nil, struct{}{})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var job struct {
		Link string `json:"odata.id"`
	}
	if err := resp.Decode(&job); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return job.Link, nil
}

func (c *Client) FolderSchedules(ctx context.Context, folderID string) ([]models.Schedule, error) {
	const op = "mediasite.FolderSchedules"

	resp, err := c.Call(ctx, Get, "Schedules", url.Values{
		"$top":    {"100"},
		"$filter": {filter("FolderId eq %s", folderID)},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.Schedule]
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Value, nil
}

func (c *Client) folders(ctx context.Context, query url.Values) ([]models.Folder, error) {
	resp, err := c.Call(ctx, Get, "Folders", query, nil)
	if err != nil {
		return nil, err
	}

	var out list[models.Folder]
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}

	return out.Value, nil
}
