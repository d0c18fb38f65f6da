package importer

import (
	"context"
	"errors"

	"countries-informer/internal/domain/model"
)

var (
	ErrStoreDisabled = errors.New("places store is disabled")
	ErrQueueDisabled = errors.New("places import queue is disabled")
)

type UseCase interface {
	// ImportPlaces upserts the countries of a batch, then its cities.
	// Cities whose country is neither in the batch nor stored are skipped.
	ImportPlaces(ctx context.Context, message model.PlacesImportMessage) (*model.ImportResult, error)

	// EnqueuePlaces splits a batch into queue messages that each carry the countries their cities need
	EnqueuePlaces(ctx context.Context, message model.PlacesImportMessage) (*model.EnqueueResult, error)
}
