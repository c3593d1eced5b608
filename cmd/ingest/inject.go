//go:build wireinject
// +build wireinject

package main

import (
	ingest "github.com/ATenderholt/rainbow-ingest/internal/http"
	"github.com/ATenderholt/rainbow-ingest/internal/queue"
	"github.com/ATenderholt/rainbow-ingest/internal/service"
	"github.com/ATenderholt/rainbow-ingest/internal/settings"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/wire"
)

var api = wire.NewSet(
	ingest.NewChiMux,
	ingest.NewIngestHandler,
	wire.Bind(new(ingest.BatchHandler), new(*service.BatchCoordinator)),
)

var pipeline = wire.NewSet(
	service.NewMetadataFetcher,
	service.NewOutcomeLogger,
	NewProcessorRegistry,
	NewOutcomeStore,
	NewCoordinator,
	wire.Bind(new(service.Config), new(*settings.Config)),
	wire.Bind(new(service.HeadObjectApi), new(*s3.Client)),
	wire.Bind(new(service.PutItemApi), new(*dynamodb.Client)),
)

func InjectApp(cfg *settings.Config) (App, error) {
	wire.Build(
		NewApp,
		api,
		pipeline,
		NewQueueConsumer,
		wire.Bind(new(queue.BatchHandler), new(*service.BatchCoordinator)),
		NewAwsConfig,
		NewS3Client,
		NewDynamoClient,
		NewSqsClient,
	)
	return App{}, nil
}
