package service

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
)

// ParseBatch validates a raw notification batch and extracts its records. The
// whole batch is rejected if any single entry is malformed: a platform
// delivered batch is expected to be internally consistent, and a partial
// parse would leave the retry semantics ambiguous.
func ParseBatch(payload []byte) ([]domain.NotificationRecord, error) {
	var envelope domain.EventEnvelope
	err := json.Unmarshal(payload, &envelope)
	if err != nil {
		return nil, MalformedEventError{reason: "unable to decode payload", base: err}
	}

	if len(envelope.Records) == 0 {
		return nil, MalformedEventError{reason: "batch contains no records"}
	}

	records := make([]domain.NotificationRecord, 0, len(envelope.Records))
	for i, entry := range envelope.Records {
		record, err := parseRecord(entry)
		if err != nil {
			return nil, MalformedEventError{reason: fmt.Sprintf("record %d", i), base: err}
		}

		records = append(records, record)
	}

	return records, nil
}

func parseRecord(entry domain.EventRecord) (domain.NotificationRecord, error) {
	if entry.S3.Bucket.Name == "" {
		return domain.NotificationRecord{}, fmt.Errorf("missing bucket name")
	}

	if entry.S3.Object.Key == "" {
		return domain.NotificationRecord{}, fmt.Errorf("missing object key")
	}

	if entry.EventName == "" {
		return domain.NotificationRecord{}, fmt.Errorf("missing event name")
	}

	eventTime := time.Time(entry.EventTime)
	if eventTime.IsZero() {
		return domain.NotificationRecord{}, fmt.Errorf("missing event time")
	}

	// object keys arrive url-encoded in notifications
	key, err := url.QueryUnescape(entry.S3.Object.Key)
	if err != nil {
		return domain.NotificationRecord{}, fmt.Errorf("invalid object key %s: %v", entry.S3.Object.Key, err)
	}

	return domain.NotificationRecord{
		Bucket:    entry.S3.Bucket.Name,
		Key:       key,
		Event:     entry.EventName,
		EventTime: eventTime,
		Size:      entry.S3.Object.Size,
	}, nil
}
