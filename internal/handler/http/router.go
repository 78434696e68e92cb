package http

import (
	"log/slog"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

const (
	maxRequestBody = 1 << 20
	maxBackupBody  = 32 << 20
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	shiftHandler ShiftHandler,
	attendanceHandler AttendanceHandler,
	dailyStatusHandler DailyStatusHandler,
	statisticsHandler StatisticsHandler,
	backupHandler BackupHandler,
	settingsHandler SettingsHandler,
	noteHandler NoteHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/shifts", func(r chi.Router) {
			r.Use(middleware.MaxBodySize(maxRequestBody))
			r.Use(middleware.RequireJSON)

			r.Get("/", shiftHandler.List)
			r.Post("/", shiftHandler.Create)

			r.Get("/active", shiftHandler.GetActive)
			r.Put("/active", shiftHandler.SetActive)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", shiftHandler.Get)
				r.Put("/", shiftHandler.Update)
				r.Delete("/", shiftHandler.Delete)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/logs", attendanceHandler.Logs)

			r.Route("/today", func(r chi.Router) {
				r.Get("/", attendanceHandler.Today)
				r.Get("/stream", attendanceHandler.Stream)

				r.Group(func(r chi.Router) {
					r.Use(middleware.MaxBodySize(maxRequestBody))
					r.Use(middleware.RequireJSON)
					r.Post("/advance", attendanceHandler.Advance)
					r.Post("/actions", attendanceHandler.Perform)
					r.Post("/punch", attendanceHandler.Punch)
					r.Post("/reset", attendanceHandler.Reset)
				})
			})
		})

		r.Route("/daily-statuses", func(r chi.Router) {
			r.Get("/", dailyStatusHandler.List)
			r.Get("/{date}", dailyStatusHandler.Get)
			r.Post("/{date}/recalculate", dailyStatusHandler.Recalculate)
			r.With(middleware.MaxBodySize(maxRequestBody), middleware.RequireJSON).
				Put("/{date}", dailyStatusHandler.Put)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.MaxBodySize(maxRequestBody))
			r.Use(middleware.RequireJSON)

			r.Get("/", settingsHandler.Get)
			r.Put("/", settingsHandler.Update)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(middleware.MaxBodySize(maxRequestBody))
			r.Use(middleware.RequireJSON)

			r.Get("/", noteHandler.List)
			r.Post("/", noteHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.Get)
				r.Put("/", noteHandler.Update)
				r.Delete("/", noteHandler.Delete)
			})
		})

		r.Route("/statistics", func(r chi.Router) {
			r.Get("/", statisticsHandler.Summary)
			r.Get("/week", statisticsHandler.Week)
			r.Get("/export.csv", statisticsHandler.ExportCSV)
		})

		r.Route("/backup", func(r chi.Router) {
			r.Get("/", backupHandler.Export)
			r.With(middleware.MaxBodySize(maxBackupBody), middleware.RequireJSON).
				Post("/restore", backupHandler.Restore)
		})
	})

	return r
}
