package health

import (
	"context"
	"sync"

	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/gateway/db"
	"countries-informer/internal/domain/gateway/queue"
	"countries-informer/internal/domain/model"
)

var disabled = model.ComponentHealthStatus{
	Status:  model.StatusUnknown,
	Details: map[string]string{"message": "disabled"},
}

type healthUseCase struct {
	dbGateway    db.HealthDBGateway
	queueGateway queue.HealthGateway
	namespaces   *cache.Namespaces
}

// NewHealthUseCase aggregates component health. dbGateway and queueGateway may be nil when disabled.
func NewHealthUseCase(dbGateway db.HealthDBGateway, queueGateway queue.HealthGateway, namespaces *cache.Namespaces) UseCase {
	return &healthUseCase{
		dbGateway:    dbGateway,
		queueGateway: queueGateway,
		namespaces:   namespaces,
	}
}

func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	response := model.HealthResponse{
		Database: disabled,
		Queue:    disabled,
		Cache:    make(map[string]model.ComponentHealthStatus),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	if useCase.dbGateway != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := useCase.dbGateway.Health(ctx)
			mu.Lock()
			response.Database = status
			mu.Unlock()
		}()
	}
	if useCase.queueGateway != nil {
		response.Queue = useCase.queueGateway.Health()
	}
	if useCase.namespaces != nil {
		for _, ns := range useCase.namespaces.All() {
			wg.Add(1)
			go func(ns cache.Namespace) {
				defer wg.Done()
				status := ns.Health(ctx)
				mu.Lock()
				response.Cache[ns.Name()] = status
				mu.Unlock()
			}(ns)
		}
	}
	wg.Wait()

	response.Status = response.Overall()
	return response
}
