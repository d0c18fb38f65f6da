package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"countries-informer/pkg/log"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxBatchEntries is the SendMessageBatch entry limit of SQS.
const maxBatchEntries = 10

const defaultSendParallelism = 4

// BatchMessage is one entry of a batch send. Body is encoded as JSON.
type BatchMessage struct {
	MessageID string `json:"messageId"`
	Body      any    `json:"body"`
}

// BatchResult lists entry ids by delivery status.
type BatchResult struct {
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}

func newBatchResult() *BatchResult {
	return &BatchResult{Successful: []string{}, Failed: []string{}}
}

func (r *BatchResult) merge(other *BatchResult) {
	r.Successful = append(r.Successful, other.Successful...)
	r.Failed = append(r.Failed, other.Failed...)
}

// SQSClient is the part of the SQS API the sender needs.
type SQSClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// Sender publishes JSON messages in SQS batches. Queue URLs are resolved once per name.
type Sender struct {
	sqsClient   SQSClient
	parallelism int
	queueURLs   sync.Map
}

func NewSender(sqsClient SQSClient) *Sender {
	return &Sender{sqsClient: sqsClient, parallelism: defaultSendParallelism}
}

// SendMessageBatch splits messages into SQS batches and sends them concurrently.
// A batch the API rejects as a whole reports all of its ids as failed; only queue resolution errors are returned.
func (s *Sender) SendMessageBatch(ctx context.Context, queueName string, messages []BatchMessage) (*BatchResult, error) {
	if len(messages) == 0 {
		return newBatchResult(), nil
	}

	queueURL, err := s.queueURL(ctx, queueName)
	if err != nil {
		return nil, fmt.Errorf("resolve queue %s: %w", queueName, err)
	}

	chunks := slices.Collect(slices.Chunk(messages, maxBatchEntries))
	results := make([]*BatchResult, len(chunks))

	var group errgroup.Group
	group.SetLimit(s.parallelism)
	for i, chunk := range chunks {
		group.Go(func() error {
			results[i] = s.sendChunk(ctx, queueName, queueURL, chunk)
			return nil
		})
	}
	_ = group.Wait()

	total := newBatchResult()
	for _, result := range results {
		total.merge(result)
	}
	return total, nil
}

func (s *Sender) sendChunk(ctx context.Context, queueName, queueURL string, chunk []BatchMessage) *BatchResult {
	result := newBatchResult()
	entries := make([]types.SendMessageBatchRequestEntry, 0, len(chunk))
	for _, message := range chunk {
		body, err := json.Marshal(message.Body)
		if err != nil {
			log.Warn("sqs message body not encodable", zap.String("queue", queueName), zap.String("id", message.MessageID), zap.Error(err))
			result.Failed = append(result.Failed, message.MessageID)
			continue
		}
		encoded := string(body)
		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:          &message.MessageID,
			MessageBody: &encoded,
		})
	}
	if len(entries) == 0 {
		return result
	}

	output, err := s.sqsClient.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{QueueUrl: &queueURL, Entries: entries})
	if err != nil {
		log.Error("sqs batch rejected", zap.String("queue", queueName), zap.Int("entries", len(entries)), zap.Error(err))
		for _, entry := range entries {
			result.Failed = append(result.Failed, *entry.Id)
		}
		return result
	}

	for _, ok := range output.Successful {
		if ok.Id != nil {
			result.Successful = append(result.Successful, *ok.Id)
		}
	}
	for _, failed := range output.Failed {
		if failed.Id != nil {
			result.Failed = append(result.Failed, *failed.Id)
		}
	}
	return result
}

func (s *Sender) queueURL(ctx context.Context, queueName string) (string, error) {
	if cached, ok := s.queueURLs.Load(queueName); ok {
		return cached.(string), nil
	}

	output, err := s.sqsClient.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: &queueName})
	if err != nil {
		return "", err
	}
	if output.QueueUrl == nil {
		return "", fmt.Errorf("queue %s has no url", queueName)
	}
	s.queueURLs.Store(queueName, *output.QueueUrl)
	return *output.QueueUrl, nil
}
