package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/Badsnus/qrbatch/cmd/qrbatch"
	"github.com/Badsnus/qrbatch/internal/adapters/config"
	"github.com/Badsnus/qrbatch/internal/domain/utils/validator"
	"github.com/Badsnus/qrbatch/pkg/logger"

	_ "time/tzdata"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	settings, v, err := config.Load(args)
	if errors.Is(err, config.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	if err = logger.Init(settings.Log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := qrbatch.New(ctx, settings, v)
	if err != nil {
		logger.Log.Error(err)
		return exitFailure
	}
	defer app.Close()

	if err = app.Run(ctx); err != nil {
		var failures validator.Failures
		if errors.As(err, &failures) {
			for _, f := range failures {
				logger.Log.Errorf("%s: %s", f.Field, f.Reason)
			}
		} else {
			logger.Log.Error(err)
		}
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var (
		failures validator.Failures
		failure  *validator.Failure
		invalid  govalidator.ValidationErrors
	)
	if errors.As(err, &failures) || errors.As(err, &failure) || errors.As(err, &invalid) {
		return exitValidation
	}
	return exitFailure
}
