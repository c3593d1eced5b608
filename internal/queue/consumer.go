package queue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/ATenderholt/rainbow-ingest/internal/service"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/reactivex/rxgo/v2"
)

const (
	maxMessages     = 10
	waitTimeSeconds = 20
)

type ReceiveApi interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type BatchHandler interface {
	Handle(ctx context.Context, payload []byte) (domain.BatchResult, error)
}

// Consumer long-polls an SQS queue carrying bucket notifications and feeds
// each message body through the batch pipeline. A message is deleted only
// when its whole batch succeeded; anything else is left for redelivery, which
// is the platform's retry path.
type Consumer struct {
	queueUrl    string
	api         ReceiveApi
	coordinator BatchHandler
}

func NewConsumer(queueUrl string, api ReceiveApi, coordinator BatchHandler) *Consumer {
	return &Consumer{
		queueUrl:    queueUrl,
		api:         api,
		coordinator: coordinator,
	}
}

// Start runs the receive loop until the context is cancelled. Messages flow
// through an observable so the integration chatter (empty bodies, the
// s3:TestEvent sent when bucket notifications are configured) is filtered
// before the pipeline sees it.
func (c *Consumer) Start(ctx context.Context) rxgo.Disposed {
	ch := make(chan rxgo.Item, maxMessages)

	disposed := rxgo.FromChannel(ch).
		Filter(isNotification).
		DoOnNext(func(i interface{}) {
			c.handleMessage(ctx, i.(types.Message))
		})

	go func() {
		defer close(ch)
		c.poll(ctx, ch)
	}()

	return disposed
}

func isNotification(i interface{}) bool {
	body := aws.ToString(i.(types.Message).Body)
	return body != "" && !strings.Contains(body, `"s3:TestEvent"`)
}

func (c *Consumer) poll(ctx context.Context, ch chan rxgo.Item) {
	logger.Infof("Polling queue %s", c.queueUrl)

	for {
		if ctx.Err() != nil {
			return
		}

		output, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueUrl),
			MaxNumberOfMessages: maxMessages,
			WaitTimeSeconds:     waitTimeSeconds,
		})

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}

			logger.Errorf("Unable to receive messages: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, message := range output.Messages {
			ch <- rxgo.Item{V: message}
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, message types.Message) {
	result, err := c.coordinator.Handle(ctx, []byte(aws.ToString(message.Body)))

	var malformed service.MalformedEventError
	if errors.As(err, &malformed) {
		// redelivery cannot fix a malformed body
		logger.Errorf("Dropping malformed message %s: %v", aws.ToString(message.MessageId), err)
		c.delete(ctx, message)
		return
	}

	if err != nil || !result.Ok() {
		logger.Warnf("Leaving message %s for redelivery", aws.ToString(message.MessageId))
		return
	}

	c.delete(ctx, message)
}

func (c *Consumer) delete(ctx context.Context, message types.Message) {
	_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueUrl),
		ReceiptHandle: message.ReceiptHandle,
	})

	if err != nil {
		logger.Errorf("Unable to delete message %s: %v", aws.ToString(message.MessageId), err)
	}
}
