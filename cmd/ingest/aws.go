package main

import (
	"context"

	"github.com/ATenderholt/rainbow-ingest/internal/settings"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

var credentials aws.CredentialsProviderFunc = func(ctx context.Context) (aws.Credentials, error) {
	return aws.Credentials{AccessKeyID: "ABC", SecretAccessKey: "EFG", CanExpire: false}, nil
}

func endpointResolver(cfg *settings.Config) aws.EndpointResolverWithOptionsFunc {
	return func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.Endpoint,
			HostnameImmutable: true,
		}, nil
	}
}

// NewAwsConfig uses static credentials against a custom endpoint when one is
// configured (local stacks), and the default chain otherwise.
func NewAwsConfig(cfg *settings.Config) (aws.Config, error) {
	if cfg.Endpoint != "" {
		return aws.Config{
			Region:                      cfg.Region,
			Credentials:                 credentials,
			EndpointResolverWithOptions: endpointResolver(cfg),
		}, nil
	}

	return awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
}

func NewS3Client(config aws.Config) *s3.Client {
	return s3.NewFromConfig(config, func(o *s3.Options) {
		o.UsePathStyle = config.EndpointResolverWithOptions != nil
	})
}

func NewDynamoClient(config aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(config)
}

func NewSqsClient(config aws.Config) *sqs.Client {
	return sqs.NewFromConfig(config)
}
