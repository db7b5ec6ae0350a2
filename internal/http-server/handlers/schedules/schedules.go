package scheduleshandler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/zanzhit/mediasite_scheduler/internal/calendar"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers"
	authmiddleware "github.com/zanzhit/mediasite_scheduler/internal/http-server/middleware/auth"
	"github.com/zanzhit/mediasite_scheduler/internal/importer"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/api/response"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
)

// maxUpload bounds the CSV body of a single request.
const maxUpload = 4 << 20

type ImportResponse struct {
	Rows   []models.RowResult `json:"rows"`
	Failed int                `json:"failed"`
}

type SchedulesHandler struct {
	log       *slog.Logger
	schedules Schedules
	loc       *time.Location
	now       func() time.Time
}

type Schedules interface {
	ProcessBatch(ctx context.Context, rows []models.ImportRow) []models.RowResult
}

func New(log *slog.Logger, schedules Schedules, loc *time.Location) *SchedulesHandler {
	return &SchedulesHandler{
		log:       log,
		schedules: schedules,
		loc:       loc,
		now:       time.Now,
	}
}

// Import creates every schedule of a CSV body and reports one result per row.
func (h *SchedulesHandler) Import(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedules.Import"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if operator, ok := authmiddleware.Operator(r.Context()); ok {
		log = log.With(slog.String("operator", operator.Email))
	}

	rows, ok := h.parse(w, r, log)
	if !ok {
		return
	}

	results := h.schedules.ProcessBatch(r.Context(), rows)

	resp := ImportResponse{Rows: results}
	for _, res := range results {
		if res.Err != nil || res.Failed() > 0 {
			resp.Failed++
		}
	}

	log.Info("import finished", slog.Int("rows", len(results)), slog.Int("failed", resp.Failed))

	render.JSON(w, r, resp)
}

// Preview renders the occurrences of a CSV body as text/calendar without
// creating anything. Rows that fail to parse or validate are skipped.
func (h *SchedulesHandler) Preview(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedules.Preview"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rows, ok := h.parse(w, r, log)
	if !ok {
		return
	}

	reqs := make([]models.ScheduleRequest, 0, len(rows))
	for _, row := range rows {
		if row.ParseErr != nil {
			log.Warn("skipping row", slog.Int("line", row.Line), sl.Err(row.ParseErr))

			continue
		}
		if err := row.Request.Validate(); err != nil {
			log.Warn("skipping row", slog.Int("line", row.Line), sl.Err(err))

			continue
		}

		reqs = append(reqs, row.Request)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if err := calendar.Write(w, reqs, h.now(), h.loc); err != nil {
		log.Error("failed to write calendar", sl.Err(err))
	}
}

func (h *SchedulesHandler) parse(w http.ResponseWriter, r *http.Request, log *slog.Logger) ([]models.ImportRow, bool) {
	rows, err := importer.Parse(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")

			handlers.Error(w, r, http.StatusBadRequest, response.Error("empty request", ""))

			return nil, false
		}

		log.Error("failed to parse csv", sl.Err(err))

		handlers.Error(w, r, http.StatusBadRequest, response.Error(err.Error(), middleware.GetReqID(r.Context())))

		return nil, false
	}

	log.Info("csv parsed", slog.Int("rows", len(rows)))

	return rows, true
}
