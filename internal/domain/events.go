package domain

import "time"

const ObjectCreatedEvent = "s3:ObjectCreated"

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// NotificationRecord is one validated entry of a notification batch. Size is
// the size reported in the notification, which may be stale relative to the
// metadata fetched before processing.
type NotificationRecord struct {
	Bucket    string
	Key       string
	Event     string
	EventTime time.Time
	Size      int64
}

type ObjectMetadata struct {
	SizeBytes    int64
	LastModified time.Time
	ContentType  string
}

// ProcessingOutcome is the audit record persisted once per processed record.
// FileKey is the log store key, so redelivered notifications overwrite their
// earlier entry instead of accumulating duplicates.
type ProcessingOutcome struct {
	FileKey        string    `dynamodbav:"FileKey"`
	BucketName     string    `dynamodbav:"BucketName"`
	FileSize       int64     `dynamodbav:"FileSize"`
	ProcessingTime time.Time `dynamodbav:"ProcessingTime"`
	Status         Status    `dynamodbav:"Status"`
	ErrorMessage   string    `dynamodbav:"ErrorMessage,omitempty"`
}

type BatchResult struct {
	Outcomes []ProcessingOutcome
	Failed   int
}

func (r BatchResult) Ok() bool {
	return r.Failed == 0
}
