package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/elimuhub/elimu/apps/api/echo"
	"github.com/elimuhub/elimu/core"
	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/progress"
	"github.com/elimuhub/elimu/core/subject"
	"github.com/elimuhub/elimu/core/user"
	"github.com/elimuhub/elimu/core/week"
	emailsvc "github.com/elimuhub/elimu/services/email"
	logsvc "github.com/elimuhub/elimu/services/logger"
	inmemkv "github.com/elimuhub/elimu/storage/kvstore/inmem"
	pgkv "github.com/elimuhub/elimu/storage/kvstore/postgres"
	rediskv "github.com/elimuhub/elimu/storage/kvstore/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug || conf.TestMode {
		logger = logsvc.NewStdLogger(std)
	} else {
		rollbarLogger := logsvc.NewRollbarLogger(std, conf)
		rollbarLogger.Enable(true)
		logger = rollbarLogger
	}

	// set up KV store
	kv, closeKV, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up store: %v", err), err)
	}
	defer closeKV()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.TestMode {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	provider := identity.NewJWTProvider(kv, conf)
	profileSvc := user.NewService(kv)
	weekSvc := week.NewService(kv)
	subjectSvc := subject.NewService(kv, weekSvc)
	progSvc := progress.NewService(kv)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Provider:   provider,
			ProfileSvc: profileSvc,
			SubjectSvc: subjectSvc,
			WeekSvc:    weekSvc,
			ProgSvc:    progSvc,
			MailSvc:    mailSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore opens the configured KV backend: Postgres when a database URL is
// set, Redis when a redis URL is set, in-memory otherwise (DEV/TEST).
func setUpStore(conf *core.Config) (core.KV, func(), error) {
	switch {
	case conf.Database.URL != "":
		store, err := pgkv.Open(conf.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case conf.Redis.URL != "":
		store, err := rediskv.Open(context.Background(), conf.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return inmemkv.Open(), func() {}, nil
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
