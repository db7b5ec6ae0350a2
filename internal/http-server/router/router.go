package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authhandler "github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers/auth"
	recordershandler "github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers/recorders"
	scheduleshandler "github.com/zanzhit/mediasite_scheduler/internal/http-server/handlers/schedules"
	authmiddleware "github.com/zanzhit/mediasite_scheduler/internal/http-server/middleware/auth"
	"github.com/zanzhit/mediasite_scheduler/internal/http-server/middleware/logger"
)

type Handlers struct {
	Auth      *authhandler.AuthHandler
	Schedules *scheduleshandler.SchedulesHandler
	Recorders *recordershandler.RecordersHandler
}

func New(log *slog.Logger, secret string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/auth/login", h.Auth.Login)

	router.Group(func(r chi.Router) {
		r.Use(authmiddleware.JWTAuth(secret))

		r.Post("/schedules/import", h.Schedules.Import)
		r.Post("/schedules/preview", h.Schedules.Preview)

		r.Get("/recorders", h.Recorders.Statuses)
		r.Get("/recorders/{name}/recordings", h.Recorders.Recordings)
	})

	return router
}
