package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ATenderholt/rainbow-ingest/internal/queue"
	"github.com/ATenderholt/rainbow-ingest/internal/service"
	"github.com/ATenderholt/rainbow-ingest/internal/settings"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
)

type App struct {
	cfg      *settings.Config
	srv      *http.Server
	consumer *queue.Consumer
}

func NewApp(cfg *settings.Config, mux *chi.Mux, consumer *queue.Consumer) App {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	return App{
		cfg:      cfg,
		srv:      srv,
		consumer: consumer,
	}
}

func (app App) Start(ctx context.Context) error {
	go func() {
		logger.Infof("Listening on %s", app.srv.Addr)
		err := app.srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	if app.cfg.QueueUrl != "" {
		app.consumer.Start(ctx)
	}

	return nil
}

func (app App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return app.srv.Shutdown(ctx)
}

func NewProcessorRegistry(client *s3.Client) *service.Registry {
	return service.NewRegistry(
		service.NewCsvProcessor(client),
		service.NewJsonProcessor(client),
		service.NewTextProcessor(client),
	)
}

func NewOutcomeStore(cfg *settings.Config, client *dynamodb.Client) (service.OutcomeStore, error) {
	if cfg.Store == settings.StorePostgres {
		return service.NewPostgresStore(cfg.PostgresDsn)
	}

	return service.NewDynamoStore(cfg, client), nil
}

func NewCoordinator(cfg *settings.Config, fetcher *service.MetadataFetcher, registry *service.Registry,
	outcomes *service.OutcomeLogger) *service.BatchCoordinator {
	return service.NewBatchCoordinator(cfg, cfg.Filter(), fetcher, registry, outcomes)
}

func NewQueueConsumer(cfg *settings.Config, client *sqs.Client, coordinator *service.BatchCoordinator) *queue.Consumer {
	return queue.NewConsumer(cfg.QueueUrl, client, coordinator)
}
