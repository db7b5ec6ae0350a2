package resourceservice

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
	"github.com/zanzhit/mediasite_scheduler/internal/mediasite"
)

// Orchestrator makes sure the folder path, catalog and module of a request
// exist before its schedule is created.
type Orchestrator struct {
	log      *slog.Logger
	folders  Folders
	catalogs Catalogs
	modules  Modules
	cleaner  Cleaner

	mu     sync.Mutex
	rootID string
}

type Folders interface {
	RootFolderID(ctx context.Context) (string, error)
	FindFolder(ctx context.Context, name, parentID string) (models.Folder, bool, error)
	CreateFolder(ctx context.Context, name, parentID string) (models.Folder, error)
}

type Catalogs interface {
	CreateCatalog(ctx context.Context, catalog models.Catalog) (models.Catalog, error)
	EnableCatalogDownloads(ctx context.Context, catalogID string) error
	DisableCatalogLinks(ctx context.Context, catalogID string) error
}

type Modules interface {
	CreateModule(ctx context.Context, module models.Module) (models.Module, error)
	AddAssociation(ctx context.Context, moduleID, mediasiteID string) error
}

// Cleaner removes folder trees and everything that blocks their deletion.
type Cleaner interface {
	Descendants(ctx context.Context, parentID string) ([]models.Folder, error)
	FolderPresentations(ctx context.Context, folderID string) ([]models.Presentation, error)
	DeletePresentation(ctx context.Context, presentationID string) error
	FolderSchedules(ctx context.Context, folderID string) ([]models.Schedule, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
	FolderCatalogs(ctx context.Context, folderID string) ([]models.Catalog, error)
	DeleteCatalog(ctx context.Context, catalogID string) error
	DeleteFolder(ctx context.Context, id string) (string, error)
	AwaitJob(ctx context.Context, jobLink string) (models.Job, error)
}

// New builds an orchestrator. A non-empty rootID skips root folder discovery.
func New(log *slog.Logger, folders Folders, catalogs Catalogs, modules Modules, cleaner Cleaner, rootID string) *Orchestrator {
	return &Orchestrator{
		log:      log,
		folders:  folders,
		catalogs: catalogs,
		modules:  modules,
		cleaner:  cleaner,
		rootID:   rootID,
	}
}

func (o *Orchestrator) EnsureResources(ctx context.Context, req models.ScheduleRequest) (models.Resources, error) {
	const op = "service.resources.EnsureResources"

	log := o.log.With(
		slog.String("op", op),
		slog.String("name", req.Name),
	)

	if err := req.Validate(); err != nil {
		log.Warn("invalid request", sl.Err(err))

		return models.Resources{}, fmt.Errorf("%s: %w", op, err)
	}

	var res models.Resources

	folderID, err := o.ensureFolders(ctx, req.FolderPath)
	if err != nil {
		log.Error("failed to ensure folders", sl.Err(err))

		return res, fmt.Errorf("%s: %w", op, err)
	}
	res.FolderID = folderID

	if req.IncludeModule {
		module, err := o.modules.CreateModule(ctx, models.Module{Name: req.ModuleName, ModuleID: req.ModuleID})
		if err != nil {
			log.Error("failed to create module", sl.Err(err))

			return res, fmt.Errorf("%s: %w", op, err)
		}
		res.ModuleID = module.ID
	}

	if req.IncludeCatalog {
		catalog, err := o.catalogs.CreateCatalog(ctx, models.Catalog{
			Name:           req.CatalogName,
			Description:    req.CatalogDescription,
			LinkedFolderID: folderID,
		})
		if err != nil {
			log.Error("failed to create catalog", sl.Err(err))

			return res, fmt.Errorf("%s: %w", op, err)
		}
		res.CatalogID = catalog.ID

		if req.CatalogEnableDownload {
			if err := o.catalogs.EnableCatalogDownloads(ctx, catalog.ID); err != nil {
				log.Error("failed to enable catalog downloads", sl.Err(err))

				return res, fmt.Errorf("%s: %w", op, err)
			}
		}

		if !req.CatalogAllowLinks {
			if err := o.catalogs.DisableCatalogLinks(ctx, catalog.ID); err != nil {
				log.Error("failed to disable catalog links", sl.Err(err))

				return res, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if res.ModuleID != "" && res.CatalogID != "" {
		if err := o.modules.AddAssociation(ctx, res.ModuleID, res.CatalogID); err != nil {
			log.Error("failed to link module to catalog", sl.Err(err))

			return res, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("resources ready", slog.String("folder_id", res.FolderID), slog.String("catalog_id", res.CatalogID), slog.String("module_id", res.ModuleID))

	return res, nil
}

// RootID returns the configured root folder id or discovers it once.
func (o *Orchestrator) RootID(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.rootID != "" {
		return o.rootID, nil
	}

	id, err := o.folders.RootFolderID(ctx)
	if err != nil {
		return "", err
	}
	o.rootID = id

	return id, nil
}

func (o *Orchestrator) ensureFolders(ctx context.Context, path []string) (string, error) {
	parentID, err := o.RootID(ctx)
	if err != nil {
		return "", err
	}

	for _, name := range path {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		folder, found, err := o.folders.FindFolder(ctx, name, parentID)
		if err != nil {
			return "", err
		}

		if !found {
			folder, err = o.folders.CreateFolder(ctx, name, parentID)
			if err != nil {
				return "", err
			}
		}

		parentID = folder.ID
	}

	return parentID, nil
}

// RemovePath deletes the folder at path together with its subfolders and
// the presentations, schedules and catalogs that would block the deletion.
// Deleted folders stay in the platform's recycle bin.
func (o *Orchestrator) RemovePath(ctx context.Context, path []string) error {
	const op = "service.resources.RemovePath"

	log := o.log.With(
		slog.String("op", op),
		slog.String("path", strings.Join(path, "/")),
	)

	folderID, err := o.RootID(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, name := range path {
		if name == "" {
			continue
		}

		folder, found, err := o.folders.FindFolder(ctx, name, folderID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !found {
			log.Error("folder not found", slog.String("folder", name))

			return fmt.Errorf("%s: folder %q: %w", op, name, errs.ErrNotFound)
		}

		folderID = folder.ID
	}

	children, err := o.cleaner.Descendants(ctx, folderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// deepest folders first, the target last
	ids := make([]string, 0, len(children)+1)
	for _, f := range children {
		ids = append(ids, f.ID)
	}
	slices.Reverse(ids)
	ids = append(ids, folderID)

	for _, id := range ids {
		if err := o.clearFolder(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := o.deleteFolder(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("folder tree deleted")

	return nil
}

func (o *Orchestrator) clearFolder(ctx context.Context, folderID string) error {
	presentations, err := o.cleaner.FolderPresentations(ctx, folderID)
	if err != nil {
		return err
	}
	for _, p := range presentations {
		if err := o.cleaner.DeletePresentation(ctx, p.ID); err != nil {
			return err
		}
	}

	schedules, err := o.cleaner.FolderSchedules(ctx, folderID)
	if err != nil {
		return err
	}
	for _, s := range schedules {
		if err := o.cleaner.DeleteSchedule(ctx, s.ID); err != nil {
			return err
		}
	}

	catalogs, err := o.cleaner.FolderCatalogs(ctx, folderID)
	if err != nil {
		return err
	}
	for _, c := range catalogs {
		if err := o.cleaner.DeleteCatalog(ctx, c.ID); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) deleteFolder(ctx context.Context, folderID string) error {
	jobLink, err := o.cleaner.DeleteFolder(ctx, folderID)
	if err != nil {
		return err
	}

	if _, err := o.cleaner.AwaitJob(ctx, jobLink); err != nil {
		// folder deletion jobs report this even when they succeeded
		if mediasite.IsODataMessage(err, constants.JobCompletionStateMissing) {
			return nil
		}

		return err
	}

	return nil
}
