package service

import (
	"context"
	"time"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
)

// BatchCoordinator runs the per-record pipeline over a notification batch.
// Records are processed sequentially; a failure in one record is contained to
// its own outcome and never prevents later records from being processed. The
// one exception is a failed outcome write, which aborts the batch.
type BatchCoordinator struct {
	cfg      Config
	filter   domain.RecordFilter
	fetcher  *MetadataFetcher
	registry *Registry
	outcomes *OutcomeLogger
}

func NewBatchCoordinator(config Config, filter domain.RecordFilter, fetcher *MetadataFetcher,
	registry *Registry, outcomes *OutcomeLogger) *BatchCoordinator {
	return &BatchCoordinator{
		cfg:      config,
		filter:   filter,
		fetcher:  fetcher,
		registry: registry,
		outcomes: outcomes,
	}
}

// Handle parses a raw notification batch and processes it. The returned
// BatchResult aggregates per-record outcomes; the error is non-nil only for
// batch-level failures (malformed payload, lost audit write).
func (c *BatchCoordinator) Handle(ctx context.Context, payload []byte) (domain.BatchResult, error) {
	records, err := ParseBatch(payload)
	if err != nil {
		logger.Error(err)
		return domain.BatchResult{}, err
	}

	return c.ProcessBatch(ctx, records)
}

func (c *BatchCoordinator) ProcessBatch(ctx context.Context, records []domain.NotificationRecord) (domain.BatchResult, error) {
	var result domain.BatchResult
	for _, record := range records {
		if !c.filter.Accept(record) {
			logger.Infow("Record rejected by filter", "bucket", record.Bucket, "key", record.Key)
			continue
		}

		outcome, err := c.processRecord(ctx, record)
		if err != nil {
			return result, err
		}

		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status == domain.StatusError {
			result.Failed++
		}
	}

	if result.Failed > 0 {
		logger.Errorf("%d of %d records failed", result.Failed, len(result.Outcomes))
	}

	return result, nil
}

// processRecord walks one record through metadata fetch, classification and
// processing, then records the outcome exactly once. Metadata fields are only
// used when the fetch completed.
func (c *BatchCoordinator) processRecord(ctx context.Context, record domain.NotificationRecord) (domain.ProcessingOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RecordTimeout())
	defer cancel()

	outcome := domain.ProcessingOutcome{
		FileKey:        record.Key,
		BucketName:     record.Bucket,
		ProcessingTime: time.Now().UTC(),
		Status:         domain.StatusSuccess,
	}

	metadata, err := c.fetcher.Fetch(ctx, record.Bucket, record.Key)
	if err != nil {
		outcome.Status = domain.StatusError
		outcome.ErrorMessage = err.Error()
		return outcome, c.outcomes.Record(ctx, outcome)
	}

	outcome.FileSize = metadata.SizeBytes

	category := domain.Classify(record.Key)
	logger.Infow("Processing object",
		"bucket", record.Bucket,
		"key", record.Key,
		"category", category.String(),
		"size", metadata.SizeBytes,
	)

	err = c.registry.Process(ctx, category, record.Bucket, record.Key)
	if err != nil {
		outcome.Status = domain.StatusError
		outcome.ErrorMessage = err.Error()
	}

	return outcome, c.outcomes.Record(ctx, outcome)
}
