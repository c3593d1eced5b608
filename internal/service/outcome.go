package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	_ "github.com/lib/pq"
)

// OutcomeStore persists audit records keyed by FileKey with overwrite
// semantics, so redelivered notifications do not accumulate duplicate rows.
type OutcomeStore interface {
	Put(ctx context.Context, outcome domain.ProcessingOutcome) error
}

type PutItemApi interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type DynamoStore struct {
	cfg Config
	api PutItemApi
}

func NewDynamoStore(config Config, api PutItemApi) *DynamoStore {
	return &DynamoStore{
		cfg: config,
		api: api,
	}
}

func (store DynamoStore) Put(ctx context.Context, outcome domain.ProcessingOutcome) error {
	item, err := attributevalue.MarshalMap(outcome)
	if err != nil {
		return err
	}

	_, err = store.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(store.cfg.LogTable()),
		Item:      item,
	})

	return err
}

// PostgresStore is an alternative log store backend. It expects the table
//
//	CREATE TABLE processing_outcomes (
//	    file_key        text PRIMARY KEY,
//	    bucket_name     text NOT NULL,
//	    file_size       bigint NOT NULL,
//	    processing_time timestamptz NOT NULL,
//	    status          text NOT NULL,
//	    error_message   text
//	)
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &PostgresStore{db: db}, nil
}

func (store PostgresStore) Put(ctx context.Context, outcome domain.ProcessingOutcome) error {
	var message interface{}
	if outcome.ErrorMessage != "" {
		message = outcome.ErrorMessage
	}

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO processing_outcomes (file_key, bucket_name, file_size, processing_time, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (file_key) DO UPDATE SET
			bucket_name = EXCLUDED.bucket_name,
			file_size = EXCLUDED.file_size,
			processing_time = EXCLUDED.processing_time,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message
	`, outcome.FileKey, outcome.BucketName, outcome.FileSize, outcome.ProcessingTime, string(outcome.Status), message)

	return err
}

// OutcomeLogger records one audit entry per processed record. A failed write
// is escalated to the caller: losing the audit trail is itself a fault the
// invoking platform should see.
type OutcomeLogger struct {
	store OutcomeStore
}

func NewOutcomeLogger(store OutcomeStore) *OutcomeLogger {
	return &OutcomeLogger{store: store}
}

func (l OutcomeLogger) Record(ctx context.Context, outcome domain.ProcessingOutcome) error {
	err := l.store.Put(ctx, outcome)
	if err != nil {
		err := LogPersistenceError{key: outcome.FileKey, base: err}
		logger.Error(err)
		return err
	}

	logger.Infow("Recorded outcome",
		"bucket", outcome.BucketName,
		"key", outcome.FileKey,
		"status", outcome.Status,
		"size", outcome.FileSize,
	)

	return nil
}
