package qrbatch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Badsnus/qrbatch/internal/adapters/config"
	postgresStorage "github.com/Badsnus/qrbatch/internal/adapters/database/postgres"
	"github.com/Badsnus/qrbatch/internal/adapters/database/redis"
	"github.com/Badsnus/qrbatch/internal/adapters/filestore"
	"github.com/Badsnus/qrbatch/internal/adapters/telegram"
	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
	"github.com/Badsnus/qrbatch/internal/domain/entity"
	"github.com/Badsnus/qrbatch/internal/domain/service"
	"github.com/Badsnus/qrbatch/internal/domain/utils/validator"
	"github.com/Badsnus/qrbatch/pkg/logger"
	"github.com/Badsnus/qrbatch/pkg/logger/types"
	"github.com/Badsnus/qrbatch/pkg/metrics"
	"github.com/Badsnus/qrbatch/pkg/smtp"
	"github.com/Badsnus/qrbatch/pkg/tabular"
)

type App struct {
	Settings *config.Settings
	Logger   *types.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Out      io.Writer

	viper    *viper.Viper
	presets  *service.PresetService
	batch    *service.BatchService
	packager *service.PackagerService
	delivery *service.DeliveryService
	history  *service.HistoryService

	problems atomic.Int64
}

// New connects the optional backends and builds the services.
func New(ctx context.Context, settings *config.Settings, v *viper.Viper) (*App, error) {
	appLogger, err := logger.Named("qrbatch")
	if err != nil {
		return nil, err
	}

	app := &App{
		Settings: settings,
		Logger:   appLogger,
		Out:      os.Stdout,
		viper:    v,
	}
	logger.SetLogHook(func(entry types.Log) {
		if entry.Level >= zapcore.WarnLevel {
			app.problems.Add(1)
		}
	})

	var presetStorage service.PresetStorage
	switch settings.Presets.Backend {
	case "redis":
		app.Redis, err = redis.New(ctx, redis.Options{
			Host:     settings.Redis.Host,
			Port:     settings.Redis.Port,
			Password: settings.Redis.Password,
			DB:       settings.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		appLogger.Info("Successfully connected to redis")
		presetStorage = app.Redis.Presets
	default:
		presetStorage = filestore.NewPresetStorage(settings.Presets.Dir)
	}

	if settings.Database.Enabled {
		app.DB, err = openDatabase(settings)
		if err != nil {
			return nil, err
		}
		appLogger.Info("Successfully connected to the database")
		app.history = service.NewHistoryService(postgresStorage.NewBatchRunStorage(app.DB))
	}

	app.presets = service.NewPresetService(presetStorage, named("presets"))
	app.batch = service.NewBatchService(named("batch"))
	app.packager = service.NewPackagerService(named("packager"))
	app.delivery = service.NewDeliveryService(named("delivery"))

	if settings.SMTP.Enabled {
		dialer := gomail.NewDialer(settings.SMTP.Host, settings.SMTP.Port, settings.SMTP.User, settings.SMTP.Password)
		app.delivery.Register("smtp", smtp.NewClient(dialer, settings.SMTP.From, settings.SMTP.Domain, settings.SMTP.To...))
	}
	if settings.Telegram.Enabled {
		sender, err := telegram.New(telegram.Options{Token: settings.Telegram.Token, ChatID: settings.Telegram.ChatID})
		if err != nil {
			return nil, err
		}
		app.delivery.Register("telegram", sender)
	}

	return app, nil
}

func named(name string) *zap.SugaredLogger {
	l, err := logger.Named(name)
	if err != nil {
		return nil
	}
	return l.SugaredLogger
}

func openDatabase(settings *config.Settings) (*gorm.DB, error) {
	var gormConfig *gorm.Config
	if settings.Log.Debug {
		newLogger := gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
		gormConfig = &gorm.Config{
			Logger: newLogger,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		}
	}

	database, err := gorm.Open(postgres.Open(settings.Database.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	if err = database.AutoMigrate(postgresStorage.Migrations...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

// Run executes the requested preset action or one generation batch.
func (a *App) Run(ctx context.Context) error {
	s := a.Settings

	switch {
	case s.History.List > 0 || s.History.Show != "":
		return a.showHistory(ctx)
	case s.Presets.List:
		names, err := a.presets.List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(a.Out, name)
		}
		return nil
	case s.Presets.Delete != "":
		if err := a.presets.Delete(ctx, s.Presets.Delete); err != nil {
			return err
		}
		a.Logger.Infof("Preset %q deleted", s.Presets.Delete)
		return nil
	}

	if s.Presets.Load != "" {
		preset, err := a.presets.Load(ctx, s.Presets.Load)
		if err != nil {
			return err
		}
		if s, err = config.ApplyPreset(a.viper, service.PresetDocument(preset)); err != nil {
			return err
		}
		a.Settings = s
	}

	job, err := s.Form.Validate()
	if err != nil {
		return err
	}
	if s.Presets.Save != "" {
		err = a.presets.Save(ctx, s.Presets.Save, service.Preset{Form: s.Form, Delimiter: s.Input.Delimiter})
		if err != nil {
			return err
		}
	}

	if _, ok := job.Request.(entity.TabularRequest); ok {
		if job, err = a.attachInput(job); err != nil {
			return err
		}
	}

	result, err := a.batch.Run(ctx, job, s.Output.Dir, a.progress)
	if err != nil {
		if result != nil {
			a.Logger.Warnf("Batch aborted after %d codes", result.GeneratedCount)
		}
		return err
	}

	if s.Output.Zip && result.GeneratedCount > 0 {
		err = a.packager.Package(result, job.Output.Format, service.PackageOptions{
			ArchiveName: s.Output.ZipName,
			Cleanup:     s.Output.Cleanup,
		})
		if err != nil {
			return err
		}
	}

	if a.history != nil {
		if _, err = a.history.Record(ctx, result, job.Output.Format); err != nil {
			a.Logger.Errorf("Failed to record run %s: %v", result.RunID, err)
		}
	}
	a.delivery.Deliver(ctx, result)

	if s.MetricsTextfile != "" {
		if err = metrics.WriteTextfile(s.MetricsTextfile); err != nil {
			a.Logger.Errorf("Failed to write metrics: %v", err)
		}
	}

	a.Logger.Infow("Done",
		"generated", result.GeneratedCount,
		"skipped", result.SkippedCount,
		"folder", result.OutputFolder,
		"archive", result.ArchivePath,
		"warnings", a.problems.Load(),
	)
	return nil
}

// showHistory prints one recorded run with its files, or the latest runs.
func (a *App) showHistory(ctx context.Context) error {
	if a.history == nil {
		return errorz.ErrHistoryDisabled
	}

	if id := a.Settings.History.Show; id != "" {
		run, err := a.history.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get run %s: %w", id, err)
		}
		printRun(a.Out, run)
		for _, file := range run.Files {
			fmt.Fprintf(a.Out, "  %s\n", file)
		}
		return nil
	}

	runs, err := a.history.GetLatest(ctx, a.Settings.History.List)
	if err != nil {
		return err
	}
	total, err := a.history.Count(ctx)
	if err != nil {
		return err
	}
	for i := range runs {
		printRun(a.Out, &runs[i])
	}
	fmt.Fprintf(a.Out, "%d of %d runs\n", len(runs), total)
	return nil
}

func printRun(w io.Writer, run *entity.BatchRun) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\tgenerated=%d\tskipped=%d\t%s\n",
		run.StartedAt.Format("2006-01-02 15:04:05"), run.ID, run.Mode, run.Format,
		run.GeneratedCount, run.SkippedCount, run.ArchivePath)
}

func (a *App) attachInput(job *entity.BatchJob) (*entity.BatchJob, error) {
	delimiter, err := a.Settings.Input.DelimiterRune()
	if err != nil {
		return nil, err
	}
	rows, err := tabular.ReadFile(a.Settings.Input.Path, tabular.Options{
		Delimiter: delimiter,
		Encoding:  a.Settings.Input.Encoding,
		Sheet:     a.Settings.Input.Sheet,
	})
	if err != nil {
		return nil, err
	}
	a.Logger.Infof("Loaded %d rows from %s", len(rows), a.Settings.Input.Path)
	return validator.AttachRows(job, rows), nil
}

func (a *App) progress(done, total int, message string) {
	a.Logger.Debugw(message, "done", done, "total", total)
}

// Close releases the backends.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logger.Sync()
}
