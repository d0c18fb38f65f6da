package queue

import (
	"maps"
	"slices"
	"strconv"
	"sync"

	"countries-informer/internal/domain/model"
	"countries-informer/pkg/sqs"
)

// WorkerHealthGateway reports the health of the registered queue workers. It is DOWN as soon as one worker is.
type WorkerHealthGateway struct {
	mu      sync.RWMutex
	workers map[string]*sqs.Worker
}

var _ HealthGateway = (*WorkerHealthGateway)(nil)

func NewWorkerHealthGateway() *WorkerHealthGateway {
	return &WorkerHealthGateway{workers: make(map[string]*sqs.Worker)}
}

func (gateway *WorkerHealthGateway) RegisterWorker(name string, worker *sqs.Worker) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	gateway.workers[name] = worker
}

func (gateway *WorkerHealthGateway) UnregisterWorker(name string) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	delete(gateway.workers, name)
}

func (gateway *WorkerHealthGateway) Health() model.ComponentHealthStatus {
	gateway.mu.RLock()
	defer gateway.mu.RUnlock()

	if len(gateway.workers) == 0 {
		return model.ComponentHealthStatus{
			Status:  model.StatusUnknown,
			Details: map[string]string{"message": "no workers registered", "workers": "0"},
		}
	}

	status := model.StatusUp
	details := map[string]string{"workers": strconv.Itoa(len(gateway.workers))}
	down := 0

	for _, name := range slices.Sorted(maps.Keys(gateway.workers)) {
		health := gateway.workers[name].HealthCheck()
		if health.Status != sqs.StatusUp {
			status = model.StatusDown
			down++
		}
		details[name+".status"] = string(health.Status)
		for key, value := range health.Details {
			details[name+"."+key] = value
		}
	}
	details["workers_down"] = strconv.Itoa(down)

	return model.ComponentHealthStatus{Status: status, Details: details}
}
