package sqs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"countries-informer/pkg/log"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// HandlerFunc defines a function that handles a SQS Message
type HandlerFunc func(ctx context.Context, msg types.Message) error

// HandleMessage implements the Handler interface for HandlerFunc
func (f HandlerFunc) HandleMessage(ctx context.Context, msg types.Message) error {
	return f(ctx, msg)
}

// Handler defines an interface that processes a SQS Message
type Handler interface {
	HandleMessage(ctx context.Context, msg types.Message) error
}

// WorkerClient defines the SQS operations a Worker needs
type WorkerClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// LogLevel represents the logging level for the Worker
type LogLevel int

const (
	// Silent disables all logs
	Silent LogLevel = iota
	// ErrorLevel logs only errors
	ErrorLevel
	// InfoLevel logs informational and error messages
	InfoLevel
)

// WorkerConfig defines the configuration options for a Worker
type WorkerConfig struct {
	MaxNumberOfMessages int32
	WaitTimeSeconds     int32
	PoolSize            int
	LogLevel            LogLevel
	// ErrorBackoff is the pause after a failed receive
	ErrorBackoff time.Duration
}

// Worker polls and processes messages from a SQS queue
type Worker struct {
	sqsClient           WorkerClient
	queueName           string
	queueURL            string
	maxNumberOfMessages int32
	waitTimeSeconds     int32
	poolSize            int
	logLevel            LogLevel
	errorBackoff        time.Duration
	handler             Handler
	running             sync.WaitGroup

	mu                sync.Mutex
	started           bool
	lastPoll          time.Time
	lastError         string
	consecutiveErrors int
	processed         int64
	failed            int64
}

// HealthStatus represents the health of a Worker
type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
)

// unhealthyAfter is the number of consecutive receive failures that marks a worker DOWN
const unhealthyAfter = 3

// WorkerHealth is the health snapshot of a Worker
type WorkerHealth struct {
	Status  HealthStatus
	Details map[string]string
}

// NewWorker creates and returns a new Worker.
//
// If the provided WorkerConfig is nil or its fields are zero,
// the following defaults will be used:
//   - MaxNumberOfMessages: 10
//   - WaitTimeSeconds: 20
//   - PoolSize: 1
//   - LogLevel: Silent
//
// Validations:
//   - MaxNumberOfMessages must be between 1 and 10.
//   - WaitTimeSeconds must be between 1 and 20.
//   - PoolSize must be greater than 0.
func NewWorker(ctx context.Context, sqsClient WorkerClient, queueName string, handler Handler, config *WorkerConfig) (*Worker, error) {
	var maxMessages int32 = 10
	var waitTime int32 = 20
	poolSize := 1
	logLevel := Silent
	errorBackoff := time.Second

	if config != nil {
		if config.MaxNumberOfMessages != 0 {
			maxMessages = config.MaxNumberOfMessages
		}
		if config.WaitTimeSeconds != 0 {
			waitTime = config.WaitTimeSeconds
		}
		if config.PoolSize != 0 {
			poolSize = config.PoolSize
		}
		if config.ErrorBackoff != 0 {
			errorBackoff = config.ErrorBackoff
		}
		logLevel = config.LogLevel
	}

	if maxMessages < 1 || maxMessages > 10 {
		return nil, errors.New("maxNumberOfMessages must be between 1 and 10")
	}
	if waitTime < 1 || waitTime > 20 {
		return nil, errors.New("waitTimeSeconds must be between 1 and 20")
	}
	if poolSize < 1 {
		return nil, errors.New("poolSize must be greater than 0")
	}

	result, err := sqsClient.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: &queueName,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to get queue URL: %w", err)
	}
	if result.QueueUrl == nil {
		return nil, fmt.Errorf("queue URL is nil for queue %s", queueName)
	}

	return &Worker{
		sqsClient:           sqsClient,
		queueName:           queueName,
		queueURL:            *result.QueueUrl,
		maxNumberOfMessages: maxMessages,
		waitTimeSeconds:     waitTime,
		poolSize:            poolSize,
		logLevel:            logLevel,
		errorBackoff:        errorBackoff,
		handler:             handler,
	}, nil
}

// QueueName returns the name of the polled queue
func (w *Worker) QueueName() string {
	return w.queueName
}

// Start begins polling messages and processing them concurrently.
// It will spawn PoolSize number of pollers that keep polling messages
// until the provided context is canceled, then waits for in-flight handlers.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.started = false
		w.mu.Unlock()
	}()

	var wg sync.WaitGroup

	for i := 0; i < w.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.pollMessages(ctx)
		}()
	}

	wg.Wait()
	w.running.Wait()
}

func (w *Worker) pollMessages(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		output, err := w.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            &w.queueURL,
			MaxNumberOfMessages: w.maxNumberOfMessages,
			WaitTimeSeconds:     w.waitTimeSeconds,
		})
		w.recordPoll(err)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logf(ErrorLevel, "failed to receive messages from %s: %v", w.queueName, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.errorBackoff):
			}
			continue
		}

		for _, msg := range output.Messages {
			w.running.Add(1)
			go func(msg types.Message) {
				defer w.running.Done()
				w.handleMessage(ctx, msg)
			}(msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg types.Message) {
	err := w.handler.HandleMessage(ctx, msg)
	w.recordResult(err)
	if err != nil {
		w.logf(ErrorLevel, "error processing message ID %s: %v", safeMessageID(msg), err)
		return
	}

	_, err = w.sqsClient.DeleteMessage(context.WithoutCancel(ctx), &sqs.DeleteMessageInput{
		QueueUrl:      &w.queueURL,
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		w.logf(ErrorLevel, "failed to delete message ID %s: %v", safeMessageID(msg), err)
	} else {
		w.logf(InfoLevel, "successfully deleted message ID %s", safeMessageID(msg))
	}
}

func (w *Worker) recordPoll(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastPoll = time.Now()
	if err != nil {
		w.consecutiveErrors++
		w.lastError = err.Error()
		return
	}
	w.consecutiveErrors = 0
}

func (w *Worker) recordResult(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.failed++
		return
	}
	w.processed++
}

// HealthCheck reports DOWN when the worker is not polling or keeps failing to receive
func (w *Worker) HealthCheck() WorkerHealth {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := StatusUp
	if !w.started || w.consecutiveErrors >= unhealthyAfter {
		status = StatusDown
	}

	details := map[string]string{
		"queue":     w.queueName,
		"running":   strconv.FormatBool(w.started),
		"processed": strconv.FormatInt(w.processed, 10),
		"failed":    strconv.FormatInt(w.failed, 10),
	}
	if !w.lastPoll.IsZero() {
		details["last_poll"] = w.lastPoll.Format(time.RFC3339)
	}
	if w.lastError != "" {
		details["last_error"] = w.lastError
	}
	return WorkerHealth{Status: status, Details: details}
}

func (w *Worker) logf(level LogLevel, format string, v ...interface{}) {
	if w.logLevel == Silent {
		log.Debugf(format, v...)
		return
	}
	if level == ErrorLevel && (w.logLevel == ErrorLevel || w.logLevel == InfoLevel) {
		log.Errorf(format, v...)
	}
	if level == InfoLevel && w.logLevel == InfoLevel {
		log.Infof(format, v...)
	}
}

func safeMessageID(msg types.Message) string {
	if msg.MessageId == nil {
		return ""
	}
	return *msg.MessageId
}
