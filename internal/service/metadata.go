package service

import (
	"context"
	"errors"
	"time"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
)

const backoffBase = 100 * time.Millisecond

type Config interface {
	MetadataRetries() uint64
	RecordTimeout() time.Duration
	LogTable() string
}

type HeadObjectApi interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// MetadataFetcher retrieves object size, last-modified and content-type ahead
// of processing, retrying transient storage faults with exponential backoff.
// A missing object is terminal for the record and is not retried.
type MetadataFetcher struct {
	cfg Config
	api HeadObjectApi
}

func NewMetadataFetcher(config Config, api HeadObjectApi) *MetadataFetcher {
	return &MetadataFetcher{
		cfg: config,
		api: api,
	}
}

func (fetcher MetadataFetcher) Fetch(ctx context.Context, bucket string, key string) (domain.ObjectMetadata, error) {
	var metadata domain.ObjectMetadata

	operation := func() error {
		output, err := fetcher.api.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})

		if err != nil {
			var notFound *types.NotFound
			if errors.As(err, &notFound) {
				return backoff.Permanent(NotFoundError{bucket: bucket, key: key, base: err})
			}

			return TransientStorageError{bucket: bucket, key: key, base: err}
		}

		metadata = domain.ObjectMetadata{
			SizeBytes:    aws.ToInt64(output.ContentLength),
			LastModified: aws.ToTime(output.LastModified),
			ContentType:  aws.ToString(output.ContentType),
		}

		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = backoffBase

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, fetcher.cfg.MetadataRetries()), ctx))
	if err != nil {
		logger.Error(err)
		return domain.ObjectMetadata{}, err
	}

	return metadata, nil
}
