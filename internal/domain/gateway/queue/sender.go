package queue

import "context"

// BatchMessage represents a message to be sent in batch
type BatchMessage struct {
	MessageID string `json:"messageId"`
	Body      any    `json:"body"`
}

// BatchResult represents the result of a batch send operation
type BatchResult struct {
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}

// Sender publishes messages to a named queue in batches.
type Sender interface {
	SendMessageBatch(ctx context.Context, queueName string, messages []BatchMessage) (*BatchResult, error)
}
