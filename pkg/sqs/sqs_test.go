package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu         sync.Mutex
	pending    []types.Message
	deleted    []string
	sent       []string
	batches    int
	batchErr   error
	urlLookups int
	failIDs    map[string]bool
	received   chan struct{}
}

func (f *fakeQueue) GetQueueUrl(_ context.Context, params *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	f.mu.Lock()
	f.urlLookups++
	f.mu.Unlock()
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String("http://localhost/queue/" + *params.QueueName)}, nil
}

func (f *fakeQueue) SendMessageBatch(_ context.Context, params *sqs.SendMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := &sqs.SendMessageBatchOutput{}
	for _, entry := range params.Entries {
		if f.failIDs[*entry.Id] {
			out.Failed = append(out.Failed, types.BatchResultErrorEntry{Id: entry.Id})
			continue
		}
		f.sent = append(f.sent, *entry.MessageBody)
		out.Successful = append(out.Successful, types.SendMessageBatchResultEntry{Id: entry.Id})
	}
	return out, nil
}

func (f *fakeQueue) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if len(f.pending) > 0 {
		msgs := f.pending
		f.pending = nil
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: msgs}, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeQueue) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, *params.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func TestSender_SendMessageBatch(t *testing.T) {
	queue := &fakeQueue{failIDs: map[string]bool{"7": true}}
	sender := NewSender(queue)

	messages := make([]BatchMessage, 23)
	for i := range messages {
		messages[i] = BatchMessage{MessageID: fmt.Sprint(i), Body: map[string]int{"n": i}}
	}

	result, err := sender.SendMessageBatch(context.Background(), "places_import", messages)
	require.NoError(t, err)

	assert.Equal(t, 3, queue.batches)
	assert.Len(t, result.Successful, 22)
	assert.Equal(t, []string{"7"}, result.Failed)
	assert.Equal(t, 1, queue.urlLookups)
}

func TestSender_EmptyBatch(t *testing.T) {
	queue := &fakeQueue{}
	result, err := NewSender(queue).SendMessageBatch(context.Background(), "places_import", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Successful)
	assert.Empty(t, result.Failed)
	assert.Zero(t, queue.urlLookups)
}

func TestSender_UnencodableBodyFailsOnlyItsEntry(t *testing.T) {
	queue := &fakeQueue{}
	sender := NewSender(queue)

	result, err := sender.SendMessageBatch(context.Background(), "places_import", []BatchMessage{
		{MessageID: "ok", Body: map[string]string{"alpha2code": "RU"}},
		{MessageID: "bad", Body: make(chan int)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, result.Successful)
	assert.Equal(t, []string{"bad"}, result.Failed)
	assert.Equal(t, []string{`{"alpha2code":"RU"}`}, queue.sent)
}

func TestSender_RejectedBatchFailsEveryEntry(t *testing.T) {
	queue := &fakeQueue{batchErr: errors.New("access denied")}
	sender := NewSender(queue)

	result, err := sender.SendMessageBatch(context.Background(), "places_import", []BatchMessage{
		{MessageID: "a", Body: 1},
		{MessageID: "b", Body: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Successful)
	assert.ElementsMatch(t, []string{"a", "b"}, result.Failed)

	_, err = sender.SendMessageBatch(context.Background(), "places_import", []BatchMessage{{MessageID: "c", Body: 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, queue.urlLookups, "queue url is resolved once")
}

func TestWorker_DeletesHandledMessages(t *testing.T) {
	queue := &fakeQueue{pending: []types.Message{
		{MessageId: aws.String("ok"), ReceiptHandle: aws.String("r-ok"), Body: aws.String(`{"v":1}`)},
		{MessageId: aws.String("bad"), ReceiptHandle: aws.String("r-bad"), Body: aws.String(`{"v":2}`)},
	}}

	var mu sync.Mutex
	var handled []int
	done := make(chan struct{}, 2)
	handler := HandlerFunc(func(_ context.Context, msg types.Message) error {
		defer func() { done <- struct{}{} }()
		var body struct{ V int }
		if err := json.Unmarshal([]byte(*msg.Body), &body); err != nil {
			return err
		}
		mu.Lock()
		handled = append(handled, body.V)
		mu.Unlock()
		if body.V == 2 {
			return errors.New("rejected")
		}
		return nil
	})

	worker, err := NewWorker(context.Background(), queue, "places_import", handler, &WorkerConfig{PoolSize: 1})
	require.NoError(t, err)
	assert.Equal(t, "places_import", worker.QueueName())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(stopped)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler not called")
		}
	}
	assert.Equal(t, StatusUp, worker.HealthCheck().Status)
	cancel()
	<-stopped

	assert.ElementsMatch(t, []int{1, 2}, handled)
	assert.Equal(t, []string{"r-ok"}, queue.deleted)

	health := worker.HealthCheck()
	assert.Equal(t, StatusDown, health.Status)
	assert.Equal(t, "1", health.Details["processed"])
	assert.Equal(t, "1", health.Details["failed"])
}

func TestNewWorker_Validation(t *testing.T) {
	queue := &fakeQueue{}
	handler := HandlerFunc(func(context.Context, types.Message) error { return nil })

	_, err := NewWorker(context.Background(), queue, "q", handler, &WorkerConfig{MaxNumberOfMessages: 11})
	assert.Error(t, err)
	_, err = NewWorker(context.Background(), queue, "q", handler, &WorkerConfig{WaitTimeSeconds: 21})
	assert.Error(t, err)
	_, err = NewWorker(context.Background(), queue, "q", handler, &WorkerConfig{PoolSize: -1})
	assert.Error(t, err)
}
