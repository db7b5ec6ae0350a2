package mediasite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func (c *Client) FindPresentationReport(ctx context.Context, name string) (models.Report, error) {
	const op = "mediasite.FindPresentationReport"

	c.log.Info("finding presentation report", slog.String("op", op), slog.String("name", name))

	resp, err := c.Call(ctx, Get, "PresentationReports", url.Values{
		"$top":    {"1"},
		"$filter": {filter("Name eq %s", name)},
	}, nil)
	if err != nil {
		return models.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	var out list[models.Report]
	if err := resp.Decode(&out); err != nil {
		return models.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(out.Value) == 0 {
		return models.Report{}, fmt.Errorf("%s: report %q: %w", op, name, errs.ErrNotFound)
	}

	return out.Value[0], nil
}

// ExecutePresentationReport starts report generation. The caller awaits JobLink.
func (c *Client) ExecutePresentationReport(ctx context.Context, reportID string) (models.ReportExecution, error) {
	const op = "mediasite.ExecutePresentationReport"

	resp, err := c.Call(ctx, Post, entity("PresentationReports", reportID)+"/Execute", nil, struct{}{})
	if err != nil {
		return models.ReportExecution{}, fmt.Errorf("%s: %w", op, err)
	}

	var exec models.ReportExecution
	if err := resp.Decode(&exec); err != nil {
		return models.ReportExecution{}, fmt.Errorf("%s: %w", op, err)
	}

	return exec, nil
}

func (c *Client) ExportPresentationReport(ctx context.Context, reportID, resultID, format string) (models.ReportExport, error) {
	const op = "mediasite.ExportPresentationReport"

	body := map[string]string{
		"ResultId":   resultID,
		"FileFormat": format,
	}

	resp, err := c.Call(ctx, Post, entity("PresentationReports", reportID)+"/Export", nil, body)
	if err != nil {
		return models.ReportExport{}, fmt.Errorf("%s: %w", op, err)
	}

	var export models.ReportExport
	if err := resp.Decode(&export); err != nil {
		return models.ReportExport{}, fmt.Errorf("%s: %w", op, err)
	}

	return export, nil
}
