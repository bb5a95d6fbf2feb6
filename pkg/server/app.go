package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "SignalPulse/internal/domain/repository"
	"SignalPulse/internal/usecase"
	pkgch "SignalPulse/pkg/clickhouse"
	"SignalPulse/pkg/config"
	xhttp "SignalPulse/pkg/http"
	pkgkafka "SignalPulse/pkg/kafka"
	applogger "SignalPulse/pkg/logger"
	pkgqueue "SignalPulse/pkg/queue"
)

// App encapsulates the application lifecycle: HTTP surface, trigger
// consumer, and infrastructure clients.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    xhttp.Handler
	sink       domrepo.ResultSink
	publisher  domrepo.ReportPublisher
	consumer   *pkgkafka.Consumer
	th         *usecase.TriggerHandler
	retryQueue *pkgqueue.RedisQueue
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	sink domrepo.ResultSink,
	publisher domrepo.ReportPublisher,
	consumer *pkgkafka.Consumer,
	th *usecase.TriggerHandler,
	retryQueue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:        cfg,
		l:          l,
		handler:    handler,
		sink:       sink,
		publisher:  publisher,
		consumer:   consumer,
		th:         th,
		retryQueue: retryQueue,
		chClient:   chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.sink != nil {
		if err := a.sink.Init(ctx); err != nil {
			a.l.Error("sink init error", applogger.Error(err))
			return err
		}
		// The buffering sink decorator flushes retries in the background.
		if s, ok := a.sink.(interface{ Start(context.Context) }); ok {
			s.Start(ctx)
		}
		a.l.Info("result sink ready")
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.retryQueue != nil {
		if err := a.retryQueue.Start(); err != nil {
			a.l.Warn("retry queue start error", applogger.Error(err))
		}
	}

	if a.consumer != nil && a.th != nil {
		a.consumer.RegisterHandler(a.th)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.l.Info("trigger consumer started", applogger.String("topic", a.th.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("symbols", a.cfg.Analysis.Symbols),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.retryQueue != nil {
		if err := a.retryQueue.Stop(shutdownCtx); err != nil {
			a.l.Warn("retry queue stop error", applogger.Error(err))
		}
	}

	// Flush any aggregated logs before the producer goes away.
	a.l.RemoveCollector()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.l.Warn("sink close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
