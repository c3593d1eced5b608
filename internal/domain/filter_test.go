package domain_test

import (
	"testing"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAcceptNoRestrictions(t *testing.T) {
	filter := domain.RecordFilter{}

	assert.True(t, filter.Accept(domain.NotificationRecord{Bucket: "input-bucket", Key: "test1.csv"}))
	assert.True(t, filter.Accept(domain.NotificationRecord{Bucket: "other-bucket", Key: "test1.bin"}))
}

func TestAcceptBucketAllowlist(t *testing.T) {
	filter := domain.RecordFilter{
		Buckets: []string{"input-bucket"},
	}

	assert.True(t, filter.Accept(domain.NotificationRecord{Bucket: "input-bucket", Key: "test1.csv"}))
	assert.False(t, filter.Accept(domain.NotificationRecord{Bucket: "other-bucket", Key: "test1.csv"}))
}

func TestAcceptSuffixOnly(t *testing.T) {
	filter := domain.RecordFilter{
		Rules: []domain.FilterRule{
			{
				Name:  domain.SuffixFilter,
				Value: "csv",
			},
		},
	}

	assert.True(t, filter.Accept(domain.NotificationRecord{Key: "test1.csv"}))
	assert.False(t, filter.Accept(domain.NotificationRecord{Key: "test1.txt"}))
	assert.True(t, filter.Accept(domain.NotificationRecord{Key: "test2.csv"}))
}

func TestAcceptPrefixOnly(t *testing.T) {
	filter := domain.RecordFilter{
		Rules: []domain.FilterRule{
			{
				Name:  domain.PrefixFilter,
				Value: "incoming/",
			},
		},
	}

	assert.True(t, filter.Accept(domain.NotificationRecord{Key: "incoming/test1.csv"}))
	assert.False(t, filter.Accept(domain.NotificationRecord{Key: "archive/test1.csv"}))
}

func TestAcceptPrefixAndSuffix(t *testing.T) {
	filter := domain.RecordFilter{
		Buckets: []string{"input-bucket"},
		Rules: []domain.FilterRule{
			{
				Name:  domain.PrefixFilter,
				Value: "incoming/",
			},
			{
				Name:  domain.SuffixFilter,
				Value: "csv",
			},
		},
	}

	assert.True(t, filter.Accept(domain.NotificationRecord{Bucket: "input-bucket", Key: "incoming/test1.csv"}))
	assert.False(t, filter.Accept(domain.NotificationRecord{Bucket: "input-bucket", Key: "incoming/test1.txt"}))
	assert.False(t, filter.Accept(domain.NotificationRecord{Bucket: "input-bucket", Key: "archive/test2.csv"}))
	assert.False(t, filter.Accept(domain.NotificationRecord{Bucket: "other-bucket", Key: "incoming/test1.csv"}))
}
