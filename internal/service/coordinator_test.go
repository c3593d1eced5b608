package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/ATenderholt/rainbow-ingest/internal/service"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
)

type FailingProcessor struct {
	category domain.Category
	failKeys map[string]bool
	calls    []string
}

func (p *FailingProcessor) Category() domain.Category {
	return p.category
}

func (p *FailingProcessor) Process(_ context.Context, _ string, key string) error {
	p.calls = append(p.calls, key)
	if p.failKeys[key] {
		return fmt.Errorf("transformation failed")
	}

	return nil
}

type Fixture struct {
	head        *HeadStub
	processor   *FailingProcessor
	store       *MemoryStore
	coordinator *service.BatchCoordinator
}

func newFixture(size int64) *Fixture {
	head := &HeadStub{size: size}
	processor := &FailingProcessor{category: domain.CategoryCSV, failKeys: make(map[string]bool)}
	store := NewMemoryStore()

	coordinator := service.NewBatchCoordinator(
		TestHelper{retries: 1},
		domain.RecordFilter{},
		service.NewMetadataFetcher(TestHelper{retries: 1}, head),
		service.NewRegistry(processor),
		service.NewOutcomeLogger(store),
	)

	return &Fixture{head: head, processor: processor, store: store, coordinator: coordinator}
}

func records(keys ...string) []domain.NotificationRecord {
	var result []domain.NotificationRecord
	for _, key := range keys {
		result = append(result, domain.NotificationRecord{
			Bucket: "input-bucket",
			Key:    key,
			Event:  "ObjectCreated:Put",
		})
	}

	return result
}

func TestProcessBatchSingleSuccess(t *testing.T) {
	f := newFixture(1024)

	result, err := f.coordinator.ProcessBatch(context.Background(), records("test-file.csv"))
	if err != nil {
		t.Fatalf("Unable to process batch: %v", err)
	}

	assert.True(t, result.Ok())

	outcome := f.store.outcomes["test-file.csv"]
	assert.Equal(t, "test-file.csv", outcome.FileKey)
	assert.Equal(t, "input-bucket", outcome.BucketName)
	assert.Equal(t, int64(1024), outcome.FileSize)
	assert.Equal(t, domain.StatusSuccess, outcome.Status)
	assert.Empty(t, outcome.ErrorMessage)
	assert.False(t, outcome.ProcessingTime.IsZero())
}

func TestProcessBatchLogsEveryRecord(t *testing.T) {
	f := newFixture(10)
	f.processor.failKeys["b.csv"] = true

	result, err := f.coordinator.ProcessBatch(context.Background(), records("a.csv", "b.csv", "c.csv", "d.bin"))
	if err != nil {
		t.Fatalf("Unable to process batch: %v", err)
	}

	assert.Equal(t, 4, f.store.puts)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Outcomes, 4)
}

func TestProcessBatchUnknownTypeIsLoggedSuccess(t *testing.T) {
	f := newFixture(10)

	result, err := f.coordinator.ProcessBatch(context.Background(), records("archive.tar.gz"))
	if err != nil {
		t.Fatalf("Unable to process batch: %v", err)
	}

	assert.True(t, result.Ok())
	assert.Empty(t, f.processor.calls)
	assert.Equal(t, domain.StatusSuccess, f.store.outcomes["archive.tar.gz"].Status)
}

func TestProcessBatchMetadataNotFound(t *testing.T) {
	f := newFixture(10)
	f.head.err = &types.NotFound{}
	f.head.failures = 10

	result, err := f.coordinator.ProcessBatch(context.Background(), records("missing.csv"))
	if err != nil {
		t.Fatalf("Batch must not fail on a missing object: %v", err)
	}

	assert.Equal(t, 1, result.Failed)

	outcome := f.store.outcomes["missing.csv"]
	assert.Equal(t, domain.StatusError, outcome.Status)
	assert.Contains(t, outcome.ErrorMessage, "object not found")
	assert.Equal(t, int64(0), outcome.FileSize)

	// processing never starts when metadata is unavailable
	assert.Empty(t, f.processor.calls)
}

func TestProcessBatchContainsFailureToOneRecord(t *testing.T) {
	f := newFixture(10)
	f.processor.failKeys["b.csv"] = true

	result, err := f.coordinator.ProcessBatch(context.Background(), records("a.csv", "b.csv", "c.csv"))
	if err != nil {
		t.Fatalf("Unable to process batch: %v", err)
	}

	assert.Equal(t, []string{"a.csv", "b.csv", "c.csv"}, f.processor.calls)
	assert.Equal(t, domain.StatusSuccess, f.store.outcomes["a.csv"].Status)
	assert.Equal(t, domain.StatusError, f.store.outcomes["b.csv"].Status)
	assert.Equal(t, domain.StatusSuccess, f.store.outcomes["c.csv"].Status)
	assert.Equal(t, 1, result.Failed)
}

func TestProcessBatchEscalatesFailedAuditWrite(t *testing.T) {
	f := newFixture(10)
	f.store.err = fmt.Errorf("table unavailable")

	_, err := f.coordinator.ProcessBatch(context.Background(), records("a.csv"))

	var persistence service.LogPersistenceError
	assert.True(t, errors.As(err, &persistence))
}

func TestProcessBatchAppliesFilter(t *testing.T) {
	head := &HeadStub{size: 10}
	processor := &FailingProcessor{category: domain.CategoryCSV, failKeys: make(map[string]bool)}
	store := NewMemoryStore()

	coordinator := service.NewBatchCoordinator(
		TestHelper{retries: 1},
		domain.RecordFilter{Buckets: []string{"input-bucket"}},
		service.NewMetadataFetcher(TestHelper{retries: 1}, head),
		service.NewRegistry(processor),
		service.NewOutcomeLogger(store),
	)

	batch := []domain.NotificationRecord{
		{Bucket: "input-bucket", Key: "a.csv", Event: "ObjectCreated:Put"},
		{Bucket: "other-bucket", Key: "b.csv", Event: "ObjectCreated:Put"},
	}

	result, err := coordinator.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("Unable to process batch: %v", err)
	}

	// rejected records are neither processed nor logged
	assert.Len(t, result.Outcomes, 1)
	assert.Equal(t, 1, store.puts)
	assert.Equal(t, []string{"a.csv"}, processor.calls)
}

func TestHandleParsesAndProcesses(t *testing.T) {
	f := newFixture(1024)

	result, err := f.coordinator.Handle(context.Background(), []byte(validBatch))
	if err != nil {
		t.Fatalf("Unable to handle batch: %v", err)
	}

	assert.Len(t, result.Outcomes, 2)
	assert.Equal(t, domain.StatusSuccess, f.store.outcomes["test-file.csv"].Status)

	// the fixture registers no json processor, so the second record fails
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, domain.StatusError, f.store.outcomes["dir/some file.json"].Status)
}

func TestHandleRejectsMalformedBatch(t *testing.T) {
	f := newFixture(1024)

	_, err := f.coordinator.Handle(context.Background(), []byte(`{"Records": []}`))

	var malformed service.MalformedEventError
	assert.True(t, errors.As(err, &malformed))
	assert.Equal(t, 0, f.store.puts)
}
