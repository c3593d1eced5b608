package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type ObjectGetterApi interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Processor transforms one object of its category. The transformation either
// completes or fails; its result is not retained by the pipeline.
type Processor interface {
	Category() domain.Category
	Process(ctx context.Context, bucket string, key string) error
}

type Registry struct {
	processors map[domain.Category]Processor
}

func NewRegistry(processors ...Processor) *Registry {
	m := make(map[domain.Category]Processor)
	for _, p := range processors {
		m[p.Category()] = p
	}

	return &Registry{processors: m}
}

// Process dispatches to the processor registered for the category. Unknown
// objects are a no-op: nothing is invoked and no error is returned.
func (r *Registry) Process(ctx context.Context, category domain.Category, bucket string, key string) error {
	if category == domain.CategoryUnknown {
		logger.Infof("No processor for %s, skipping", key)
		return nil
	}

	processor, ok := r.processors[category]
	if !ok {
		return ProcessingError{category: category, key: key, base: fmt.Errorf("no processor registered")}
	}

	err := processor.Process(ctx, bucket, key)
	if err != nil {
		err := ProcessingError{category: category, key: key, base: err}
		logger.Error(err)
		return err
	}

	return nil
}

func readObject(ctx context.Context, api ObjectGetterApi, bucket string, key string) ([]byte, error) {
	output, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()

	return io.ReadAll(output.Body)
}

type CsvProcessor struct {
	api ObjectGetterApi
}

func NewCsvProcessor(api ObjectGetterApi) *CsvProcessor {
	return &CsvProcessor{api: api}
}

func (p CsvProcessor) Category() domain.Category {
	return domain.CategoryCSV
}

func (p CsvProcessor) Process(ctx context.Context, bucket string, key string) error {
	body, err := readObject(ctx, p.api, bucket, key)
	if err != nil {
		return err
	}

	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return err
	}

	logger.Infof("Processed %d csv rows from %s/%s", len(rows), bucket, key)
	return nil
}

type JsonProcessor struct {
	api ObjectGetterApi
}

func NewJsonProcessor(api ObjectGetterApi) *JsonProcessor {
	return &JsonProcessor{api: api}
}

func (p JsonProcessor) Category() domain.Category {
	return domain.CategoryJSON
}

func (p JsonProcessor) Process(ctx context.Context, bucket string, key string) error {
	body, err := readObject(ctx, p.api, bucket, key)
	if err != nil {
		return err
	}

	if !json.Valid(body) {
		return fmt.Errorf("body is not valid json")
	}

	logger.Infof("Processed %d json bytes from %s/%s", len(body), bucket, key)
	return nil
}

type TextProcessor struct {
	api ObjectGetterApi
}

func NewTextProcessor(api ObjectGetterApi) *TextProcessor {
	return &TextProcessor{api: api}
}

func (p TextProcessor) Category() domain.Category {
	return domain.CategoryPlainText
}

func (p TextProcessor) Process(ctx context.Context, bucket string, key string) error {
	body, err := readObject(ctx, p.api, bucket, key)
	if err != nil {
		return err
	}

	if !utf8.Valid(body) {
		return fmt.Errorf("body is not valid utf-8")
	}

	logger.Infof("Processed %d text bytes from %s/%s", len(body), bucket, key)
	return nil
}
