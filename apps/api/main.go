package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/learnerair/apps/api/echo"
	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/announcement"
	"github.com/trezcool/learnerair/core/homework"
	"github.com/trezcool/learnerair/core/session"
	"github.com/trezcool/learnerair/core/user"
	logsvc "github.com/trezcool/learnerair/services/logger"
	"github.com/trezcool/learnerair/storage/documents"
	"github.com/trezcool/learnerair/storage/kv"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up storage
	store, err := kv.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening %s store: %v", conf.Storage.Engine, err), err)
	}
	defer func() {
		if err = store.Close(); err != nil {
			storeLogger.Fatal("Failed to close", err)
		}
	}()

	cipher, err := user.NewCipher(conf.CredentialsKey)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up credentials cipher: %v", err), err)
	}
	db := documents.NewDB(store, cipher)
	if err = db.Seed(context.Background()); err != nil {
		storeLogger.Fatal(fmt.Sprintf("seeding store: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	activity.InitValidators(validate, translator)
	announcement.InitValidators(validate, translator)

	// set up services
	usrSvc := user.NewService(documents.NewUserRepository(db), cipher, validate)
	sessSvc := session.NewService(documents.NewSessionRepository(db), usrSvc)
	usrSvc.Observe(sessSvc)
	ledger := activity.NewLedger(documents.NewActivityRepository(db), usrSvc, validate)
	hwSvc := homework.NewService(documents.NewHomeworkRepository(db), validate)
	annSvc := announcement.NewService(documents.NewAnnouncementRepository(db), validate)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Storage.Engine)
	expvar.Publish("documents", expvar.Func(func() interface{} {
		keys, err := kv.Keys(context.Background(), store)
		if err != nil {
			return err.Error()
		}
		return keys
	}))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.Options{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         usrSvc,
		SessionSvc:      sessSvc,
		Ledger:          ledger,
		HomeworkSvc:     hwSvc,
		AnnouncementSvc: annSvc,
		Validate:        validate,
		Translator:      translator,
	})

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
