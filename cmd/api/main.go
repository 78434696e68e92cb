package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/config"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/attendance"
	backupService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/backup"
	noteService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/note"
	settingsService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/settings"
	shiftService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/shift"
	statisticsService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/statistics"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	shift       shift.ShiftRepository
	event       attendance.EventRepository
	dailyStatus attendance.DailyStatusRepository
	backup      backup.BackupRepository
	settings    settings.SettingsRepository
	note        note.NoteRepository
	close       func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			shift:       postgresql.NewShiftRepository(db),
			event:       postgresql.NewEventRepository(db),
			dailyStatus: postgresql.NewDailyStatusRepository(db),
			backup:      postgresql.NewBackupRepository(db),
			settings:    postgresql.NewSettingsRepository(db),
			note:        postgresql.NewNoteRepository(db),
			close:       db.Close,
		}, nil

	default:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &repositories{
			shift:       sqlite.NewShiftRepository(db),
			event:       sqlite.NewEventRepository(db),
			dailyStatus: sqlite.NewDailyStatusRepository(db),
			backup:      sqlite.NewBackupRepository(db),
			settings:    sqlite.NewSettingsRepository(db),
			note:        sqlite.NewNoteRepository(db),
			close:       func() { _ = db.Close() },
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftsavvy"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Error opening storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	hub := sse.NewHub(16)
	calculator := attendanceService.NewStatusCalculator(loc, cfg.Engine.RemarksLanguage)

	// REMARKS_LANGUAGE only seeds the defaults; saved settings take over
	settingsSvc := settingsService.NewSettingsService(repos.settings, settings.Default(cfg.Engine.RemarksLanguage), nil)
	shiftSvc := shiftService.NewShiftService(repos.shift, nil)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.event,
		repos.dailyStatus,
		repos.shift,
		calculator,
		settingsSvc,
		hub,
		loc,
		nil,
	)
	statisticsSvc := statisticsService.NewStatisticsService(repos.dailyStatus, repos.shift, settingsSvc, loc, nil)
	backupSvc := backupService.NewBackupService(repos.backup, hub, nil)
	noteSvc := noteService.NewNoteService(repos.note, repos.shift, nil)

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewAttendanceJobs(attendanceSvc, cfg.Cron.FinalizeInterval, cfg.Cron.LookbackDays).RegisterJobs(scheduler)
	}
	if cfg.Backup.ArchiveEnabled {
		archiveStore, err := storage.NewLocalStorage(cfg.Backup.ArchiveDir)
		if err != nil {
			slog.Error("Error opening backup archive", "dir", cfg.Backup.ArchiveDir, "error", err)
			os.Exit(1)
		}
		archiver := backupService.NewArchiver(backupSvc, archiveStore, cfg.Backup.ArchiveKeep, nil)
		cron.NewBackupJobs(archiver, cfg.Backup.ArchiveInterval).RegisterJobs(scheduler)
	}
	if jobs := scheduler.Jobs(); len(jobs) > 0 {
		slog.Info("Starting scheduler", "jobs", jobs)
		scheduler.Start()
	}

	router := appHTTP.NewRouter(
		logger,
		cfg.App.AllowedOrigins,
		appHTTP.NewShiftHandler(shiftSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewDailyStatusHandler(attendanceSvc),
		appHTTP.NewStatisticsHandler(statisticsSvc),
		appHTTP.NewBackupHandler(backupSvc),
		appHTTP.NewSettingsHandler(settingsSvc),
		appHTTP.NewNoteHandler(noteSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// open SSE streams end once a shutdown signal arrives
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
