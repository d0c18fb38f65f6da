package aws

import (
	"context"

	"countries-informer/internal/domain/gateway/queue"
	"countries-informer/pkg/sqs"
)

// SQSSenderAdapter exposes pkg/sqs.Sender as the domain queue.Sender
type SQSSenderAdapter struct {
	sqsSender *sqs.Sender
}

var _ queue.Sender = (*SQSSenderAdapter)(nil)

func NewSQSSenderAdapter(sqsClient sqs.SQSClient) *SQSSenderAdapter {
	return &SQSSenderAdapter{sqsSender: sqs.NewSender(sqsClient)}
}

func (adapter *SQSSenderAdapter) SendMessageBatch(ctx context.Context, queueName string, messages []queue.BatchMessage) (*queue.BatchResult, error) {
	sqsMessages := make([]sqs.BatchMessage, len(messages))
	for i, msg := range messages {
		sqsMessages[i] = sqs.BatchMessage{MessageID: msg.MessageID, Body: msg.Body}
	}

	result, err := adapter.sqsSender.SendMessageBatch(ctx, queueName, sqsMessages)
	if err != nil {
		return nil, err
	}
	return &queue.BatchResult{Successful: result.Successful, Failed: result.Failed}, nil
}
