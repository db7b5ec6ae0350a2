package recordershandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/api/response"
	"github.com/zanzhit/mediasite_scheduler/internal/lib/sl"
)

type RecordersHandler struct {
	log       *slog.Logger
	recorders Recorders
}

type Recorders interface {
	Statuses(ctx context.Context) ([]models.RecorderStatus, error)
	ScheduledRecordings(ctx context.Context, recorderName string) ([]models.UpcomingRecording, error)
}

func New(
	log *slog.Logger,
	recorders Recorders,
) *RecordersHandler {
	return &RecordersHandler{
		log:       log,
		recorders: recorders,
	}
}

func (h *RecordersHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recorders.Statuses"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	statuses, err := h.recorders.Statuses(r.Context())
	if err != nil {
		log.Error("failed to get recorder statuses", sl.Err(err))

		handlers.Error(w, r, http.StatusBadGateway, response.Error("failed to get recorder statuses", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, statuses)
}

func (h *RecordersHandler) Recordings(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recorders.Recordings"

	name := chi.URLParam(r, "name")

	log := h.log.With(
		slog.String("op", op),
		slog.String("recorder", name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	recordings, err := h.recorders.ScheduledRecordings(r.Context(), name)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			handlers.Error(w, r, http.StatusNotFound, response.Error("recorder not found", ""))

			return
		}

		log.Error("failed to get scheduled recordings", sl.Err(err))

		handlers.Error(w, r, http.StatusBadGateway, response.Error("failed to get scheduled recordings", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, recordings)
}
