package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zanzhit/mediasite_scheduler/internal/calendar"
	"github.com/zanzhit/mediasite_scheduler/internal/config"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	authhandler "github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers/auth"
	recordershandler "github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers/recorders"
	scheduleshandler "github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers/schedules"
	"github.com/zanzhit/mediasite_scheduler/internal/http-server/router"
	"github.com/zanzhit/mediasite_scheduler/internal/importer"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
	"github.com/zanzhit/mediasite_scheduler/internal/mediasite"
	authservice "github.com/zanzhit/mediasite_scheduler/internal/services/auth"
	occurrenceservice "github.com/zanzhit/mediasite_scheduler/internal/services/occurrences"
	recorderservice "github.com/zanzhit/mediasite_scheduler/internal/services/recorders"
	reportservice "github.com/zanzhit/mediasite_scheduler/internal/services/reports"
	resourceservice "github.com/zanzhit/mediasite_scheduler/internal/services/resources"
	scheduleservice "github.com/zanzhit/mediasite_scheduler/internal/services/schedules"
	"github.com/zanzhit/mediasite_scheduler/internal/storage/lookup"
	operatorstorage "github.com/zanzhit/mediasite_scheduler/internal/storage/operators"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var (
	importPath   = flag.String("import", "", "path to a schedule CSV to import")
	dryRun       = flag.Bool("dry-run", false, "compute occurrences of -import without creating anything")
	icsPath      = flag.String("ics", "", "write the -dry-run preview to this file instead of stdout")
	report       = flag.Bool("report", false, "download the configured presentation report once")
	removeFolder = flag.String("remove-folder", "", "delete a folder tree, e.g. /Spring 2024/Biology")
	serve        = flag.Bool("serve", false, "run the operator HTTP API")
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting mediasite scheduler", slog.String("env", cfg.Env), slog.String("base_url", cfg.Mediasite.BaseURL))

	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid timezone", slog.String("timezone", cfg.Timezone), sl.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *dryRun {
		if err := preview(*importPath, *icsPath, loc); err != nil {
			log.Error("preview failed", sl.Err(err))
			os.Exit(1)
		}

		return
	}

	client := mediasite.New(log, cfg.Mediasite, cfg.Jobs)
	if err := client.Ping(ctx); err != nil {
		log.Error("failed to connect to mediasite", sl.Err(err))
		os.Exit(1)
	}

	cache := lookup.NewDirectory(client)
	orchestrator := resourceservice.New(log, client, client, client, client, cfg.Mediasite.RootFolderID)
	occurrences := occurrenceservice.New(log, client)
	schedules := scheduleservice.New(log, cache, client, orchestrator, client, occurrences, cfg.Operator, loc)
	reports := reportservice.New(log, client)
	recorders := recorderservice.New(log, client, cfg.Recorders.Ignore)

	switch {
	case *importPath != "":
		failed, err := importFile(ctx, log, schedules, *importPath)
		if err != nil {
			log.Error("import failed", sl.Err(err))
			os.Exit(1)
		}
		if failed > 0 {
			log.Warn("some rows failed", slog.Int("failed", failed))
			os.Exit(2)
		}
	case *report:
		path, err := reports.Download(ctx, cfg.Reports.Name, cfg.Reports.Format, cfg.Reports.Dir)
		if err != nil {
			log.Error("report download failed", sl.Err(err))
			os.Exit(1)
		}
		log.Info("report saved", slog.String("path", path))
	case *removeFolder != "":
		if err := orchestrator.RemovePath(ctx, importer.SplitFolderPath(*removeFolder)); err != nil {
			log.Error("folder removal failed", sl.Err(err))
			os.Exit(1)
		}
	case *serve:
		operators := operatorstorage.New(cfg.Operators)
		auth := authservice.New(log, operators, cfg.TokenTTL, cfg.Secret)

		handler := router.New(log, cfg.Secret, router.Handlers{
			Auth:      authhandler.New(log, auth),
			Schedules: scheduleshandler.New(log, schedules, loc),
			Recorders: recordershandler.New(log, recorders),
		})

		if err := run(ctx, log, cfg, handler, reports); err != nil {
			log.Error("server stopped", sl.Err(err))
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func importFile(ctx context.Context, log *slog.Logger, schedules *scheduleservice.ScheduleService, path string) (int, error) {
	rows, err := readRows(path)
	if err != nil {
		return 0, err
	}

	results := schedules.ProcessBatch(ctx, rows)

	failed := 0
	for _, res := range results {
		attrs := []any{
			slog.String("run_id", res.RunID),
			slog.Int("line", res.Line),
			slog.String("name", res.Name),
			slog.String("schedule_id", res.ScheduleID),
			slog.Int("occurrences", len(res.Occurrences)),
			slog.Int("failed_occurrences", res.Failed()),
		}

		if res.Err != nil || res.Failed() > 0 {
			failed++
			if res.Err != nil {
				attrs = append(attrs, sl.Err(res.Err))
			}
			log.Error("row failed", attrs...)

			continue
		}

		log.Info("row scheduled", attrs...)
	}

	return failed, nil
}

func preview(path, icsPath string, loc *time.Location) error {
	if path == "" {
		return errors.New("-dry-run needs -import")
	}

	rows, err := readRows(path)
	if err != nil {
		return err
	}

	reqs := make([]models.ScheduleRequest, 0, len(rows))
	for _, row := range rows {
		if row.ParseErr != nil {
			return row.ParseErr
		}
		if err := row.Request.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", row.Line, err)
		}

		reqs = append(reqs, row.Request)
	}

	var out io.Writer = os.Stdout
	if icsPath != "" {
		f, err := os.Create(icsPath)
		if err != nil {
			return err
		}
		defer f.Close()

		out = f
	}

	return calendar.Write(out, reqs, time.Now(), loc)
}

func readRows(path string) ([]models.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return importer.Parse(f)
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Config, handler http.Handler, reports *reportservice.ReportService) error {
	if cfg.Reports.Cron != "" && cfg.Reports.Name != "" {
		c := cron.New()
		if _, err := reports.Schedule(ctx, c, cfg.Reports.Cron, cfg.Reports.Name, cfg.Reports.Format, cfg.Reports.Dir); err != nil {
			return err
		}

		c.Start()
		defer c.Stop()

		log.Info("report download scheduled", slog.String("cron", cfg.Reports.Cron))
	}

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("address", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
