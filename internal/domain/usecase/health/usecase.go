package health

import (
	"context"

	"countries-informer/internal/domain/model"
)

type UseCase interface {
	CheckHealth(ctx context.Context) model.HealthResponse
}
