package queue

import (
	"countries-informer/internal/domain/model"
	"countries-informer/pkg/sqs"
)

// HealthGateway tracks the queue workers running in this process
type HealthGateway interface {
	// Health is UNKNOWN while no worker is registered
	Health() model.ComponentHealthStatus
	RegisterWorker(name string, worker *sqs.Worker)
	UnregisterWorker(name string)
}
