package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/aggregate"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/config"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/db"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/handlers"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/idgen"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/jobs"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/logging"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/metrics"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/notify"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/websocket"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", nil).WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultPool())
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	users := store.NewUserStore(database)
	collections := store.NewCollectionStore(database)
	disbursements := store.NewDisbursementStore(database)
	dfur := store.NewDFURStore(database)
	budget := store.NewBudgetStore(database)
	comments := store.NewCommentStore(database)
	reviews := store.NewReviewStore(database)
	audit := store.NewAuditStore(database)
	sequences := store.NewSequenceStore(database)
	txRunner := db.NewTxRunner(database)

	registry, err := metrics.New()
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}
	hub := websocket.NewHub()
	mailer := notify.NewMailer(cfg.SMTP)
	fanout := notify.NewFanout(hub, mailer, log)
	go fanout.Run(ctx)

	engine := review.NewEngine(review.Deps{
		Tx:       txRunner,
		Store:    reviews,
		Audit:    audit,
		Notifier: fanout,
		Metrics:  registry,
		Logger:   log,
	})

	scheduler := cron.New()
	refresher := jobs.NewBacklogRefresher(reviews, registry, cfg.QueryTimeout, log)
	if err := refresher.Schedule(scheduler, cfg.BacklogSchedule); err != nil {
		log.WithError(err).Fatal("failed to schedule backlog refresh")
	}
	scheduler.Start()

	handler := handlers.New(cfg, handlers.Deps{
		Users:         users,
		Collections:   collections,
		Disbursements: disbursements,
		DFUR:          dfur,
		Budget:        budget,
		Comments:      comments,
		Audit:         audit,
		Review:        engine,
		Aggregates:    aggregate.NewService(collections, disbursements, budget, dfur, reviews),
		IDs:           idgen.New(sequences),
		Hub:           hub,
		Metrics:       registry,
		Logger:        log,
	})
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).WithField("env", cfg.AppEnv).Info("finance API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-scheduler.Stop().Done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
		os.Exit(1)
	}
}
