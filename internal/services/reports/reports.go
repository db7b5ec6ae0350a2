package reportservice

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
)

const (
	FormatXML   = "XML"
	FormatExcel = "Excel"
)

type ReportService struct {
	log    *slog.Logger
	client ReportClient
	now    func() time.Time
}

type ReportClient interface {
	FindPresentationReport(ctx context.Context, name string) (models.Report, error)
	ExecutePresentationReport(ctx context.Context, reportID string) (models.ReportExecution, error)
	ExportPresentationReport(ctx context.Context, reportID, resultID, format string) (models.ReportExport, error)
	AwaitJob(ctx context.Context, jobLink string) (models.Job, error)
	Stream(ctx context.Context, link string, w io.Writer) (int64, error)
}

func New(log *slog.Logger, client ReportClient) *ReportService {
	return &ReportService{
		log:    log,
		client: client,
		now:    time.Now,
	}
}

// Download executes the named presentation report, exports it in format and
// stores the export in dir. It returns the written file path.
func (s *ReportService) Download(ctx context.Context, name, format, dir string) (string, error) {
	const op = "service.reports.Download"

	log := s.log.With(
		slog.String("op", op),
		slog.String("report", name),
		slog.String("format", format),
	)

	report, err := s.client.FindPresentationReport(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("executing report", slog.String("report_id", report.ID))

	exec, err := s.client.ExecutePresentationReport(ctx, report.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.client.AwaitJob(ctx, exec.JobLink); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	export, err := s.client.ExportPresentationReport(ctx, report.ID, exec.ResultID, format)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.client.AwaitJob(ctx, export.JobLink); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	path := filepath.Join(dir, s.fileName(name, format))

	log.Info("downloading report", slog.String("link", export.DownloadLink), slog.String("path", path))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.client.Stream(ctx, export.DownloadLink, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)

		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("report downloaded", slog.Int64("bytes", n))

	return path, nil
}

// Schedule registers a periodic download of the named report on c.
func (s *ReportService) Schedule(ctx context.Context, c *cron.Cron, spec, name, format, dir string) (cron.EntryID, error) {
	const op = "service.reports.Schedule"

	id, err := c.AddFunc(spec, func() {
		path, err := s.Download(ctx, name, format, dir)
		if err != nil {
			s.log.Error("scheduled report download failed", slog.String("op", op), sl.Err(err))

			return
		}

		if format != FormatXML {
			return
		}

		summary, err := ParseSummaryFile(path)
		if err != nil {
			s.log.Error("failed to parse report summary", slog.String("op", op), sl.Err(err))

			return
		}

		s.log.Info("report summary",
			slog.String("op", op),
			slog.String("presentations_available", summary.PresentationsAvailable),
			slog.String("presentations_watched", summary.PresentationsWatched),
			slog.String("total_views", summary.TotalViews),
			slog.String("total_users", summary.TotalUsers),
			slog.String("total_time_watched", summary.TotalTimeWatched),
			slog.String("peak_connections", summary.PeakConnections),
		)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *ReportService) fileName(name, format string) string {
	ext := ".xml"
	if strings.EqualFold(format, FormatExcel) {
		ext = ".excel.xml"
	}

	slug := strings.ToLower(strings.Join(strings.Fields(name), "_"))

	return fmt.Sprintf("mediasite_report_%s_%s%s", slug, s.now().Format("01-02-2006"), ext)
}

func ParseSummaryFile(path string) (models.ReportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ReportSummary{}, err
	}
	defer f.Close()

	return ParseSummary(f)
}

// ParseSummary reads the summary values of an XML presentation report. It
// stops as soon as every value has been seen.
func ParseSummary(r io.Reader) (models.ReportSummary, error) {
	const op = "service.reports.ParseSummary"

	var summary models.ReportSummary

	fields := map[string]*string{
		"PresentationsAvailable": &summary.PresentationsAvailable,
		"TotalTimeWatched":       &summary.TotalTimeWatched,
		"PresentationsWatched":   &summary.PresentationsWatched,
		"TotalViews":             &summary.TotalViews,
		"TotalUsers":             &summary.TotalUsers,
		"PeakConnections":        &summary.PeakConnections,
	}
	remaining := len(fields)

	dec := xml.NewDecoder(r)
	for remaining > 0 {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("%s: %w", op, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		dst, ok := fields[start.Name.Local]
		if !ok || *dst != "" {
			continue
		}

		var value string
		if err := dec.DecodeElement(&value, &start); err != nil {
			return summary, fmt.Errorf("%s: %w", op, err)
		}

		*dst = strings.TrimSpace(value)
		if *dst != "" {
			remaining--
		}
	}

	return summary, nil
}
