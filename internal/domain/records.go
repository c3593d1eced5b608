package domain

import "time"

type S3Object struct {
	Key       string `json:"key"`
	Size      int64  `json:"size"`
	ETag      string `json:"eTag"`
	Sequencer string `json:"sequencer"`
}

type S3Bucket struct {
	Name string `json:"name"`
	Arn  string `json:"arn"`
}

type S3Entity struct {
	S3SchemaVersion string   `json:"s3SchemaVersion"`
	ConfigurationId string   `json:"configurationId"`
	Bucket          S3Bucket `json:"bucket"`
	Object          S3Object `json:"object"`
}

type JsonTime time.Time

const timeFormat = "2006-01-02T15:04:05.999Z"

func (t JsonTime) MarshalJSON() ([]byte, error) {
	return []byte("\"" + time.Time(t).Format(timeFormat) + "\""), nil
}

func (t *JsonTime) UnmarshalJSON(bytes []byte) error {
	newTime, err := time.Parse("\""+timeFormat+"\"", string(bytes))
	if err != nil {
		return err
	}

	*t = JsonTime(newTime)
	return nil
}

type EventRecord struct {
	EventVersion string   `json:"eventVersion"`
	EventSource  string   `json:"eventSource"`
	AwsRegion    string   `json:"awsRegion"`
	EventTime    JsonTime `json:"eventTime"`
	EventName    string   `json:"eventName"`
	S3           S3Entity `json:"s3"`
}

// EventEnvelope is a notification batch as delivered by the platform, either
// directly on invocation or as the body of a queued message.
type EventEnvelope struct {
	Records []EventRecord `json:"Records"`
}
