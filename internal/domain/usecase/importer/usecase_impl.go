package importer

import (
	"context"
	"fmt"
	"strings"

	"countries-informer/internal/domain/entity"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/gateway/db"
	"countries-informer/internal/domain/gateway/queue"
	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/country"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type importUseCase struct {
	queueName   string
	chunkSize   int
	dbGateway   db.CountryGateway
	queueSender queue.Sender
	namespace   cache.Namespace
	metrics     *metrics.Metrics
}

// NewImportUseCase wires the places pipeline. dbGateway and queueSender may be nil when disabled.
func NewImportUseCase(queueName string, chunkSize int, dbGateway db.CountryGateway, queueSender queue.Sender, namespace cache.Namespace, m *metrics.Metrics) UseCase {
	if chunkSize < 1 {
		chunkSize = 200
	}
	return &importUseCase{
		queueName:   queueName,
		chunkSize:   chunkSize,
		dbGateway:   dbGateway,
		queueSender: queueSender,
		namespace:   namespace,
		metrics:     m,
	}
}

func (uc *importUseCase) ImportPlaces(ctx context.Context, message model.PlacesImportMessage) (*model.ImportResult, error) {
	if uc.dbGateway == nil {
		return nil, ErrStoreDisabled
	}
	if err := model.ValidatePlacesImport(message); err != nil {
		return nil, err
	}
	log.Info(msg.GetMessage("importer.received", len(message.Countries), len(message.Cities)))

	countryIDs, err := uc.upsertCountries(ctx, message.Countries)
	if err != nil {
		return nil, err
	}

	if err := uc.resolveMissingCountries(ctx, message.Cities, countryIDs); err != nil {
		return nil, err
	}

	cities := make([]entity.City, 0, len(message.Cities))
	skipped := 0
	for _, city := range message.Cities {
		countryID, ok := countryIDs[strings.ToUpper(city.Alpha2Code)]
		if !ok {
			log.Warn(msg.GetMessage("importer.skipped-city", city.Name, city.Alpha2Code))
			skipped++
			continue
		}
		cities = append(cities, entity.NewCity(city, countryID))
	}

	if _, err := uc.dbGateway.UpsertCities(ctx, cities); err != nil {
		return nil, err
	}

	result := &model.ImportResult{Countries: len(message.Countries), Cities: len(cities), SkippedCities: skipped}
	uc.metrics.ObserveImport("countries", result.Countries)
	uc.metrics.ObserveImport("cities", result.Cities)
	uc.metrics.ObserveImport("skipped_cities", result.SkippedCities)
	log.Info(msg.GetMessage("importer.done", result.Countries, result.Cities, result.SkippedCities))
	return result, nil
}

// upsertCountries stores the batch countries and drops their cached single-country entries
func (uc *importUseCase) upsertCountries(ctx context.Context, countries []model.CountryDTO) (map[string]uint, error) {
	entities := make([]entity.Country, len(countries))
	for i, c := range countries {
		c.ID = 0
		c.Alpha2Code = strings.ToUpper(c.Alpha2Code)
		entities[i] = entity.NewCountry(c)
	}

	stored, err := uc.dbGateway.UpsertCountries(ctx, entities)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]uint, len(stored))
	for _, c := range stored {
		ids[c.Alpha2Code] = c.ID
		if uc.namespace != nil {
			if err := uc.namespace.Delete(ctx, country.CacheKey(c.Alpha2Code)); err != nil {
				log.Warn("failed to evict cached country", zap.String("alpha2code", c.Alpha2Code), zap.Error(err))
			}
		}
	}
	return ids, nil
}

func (uc *importUseCase) resolveMissingCountries(ctx context.Context, cities []model.CityImportDTO, ids map[string]uint) error {
	var missing []string
	seen := make(map[string]bool)
	for _, city := range cities {
		code := strings.ToUpper(city.Alpha2Code)
		if _, ok := ids[code]; ok || seen[code] {
			continue
		}
		seen[code] = true
		missing = append(missing, code)
	}
	if len(missing) == 0 {
		return nil
	}

	stored, err := uc.dbGateway.FindByAlpha2Codes(ctx, missing)
	if err != nil {
		return err
	}
	for _, c := range stored {
		ids[c.Alpha2Code] = c.ID
	}
	return nil
}

func (uc *importUseCase) EnqueuePlaces(ctx context.Context, message model.PlacesImportMessage) (*model.EnqueueResult, error) {
	if uc.queueSender == nil {
		return nil, ErrQueueDisabled
	}
	if len(message.Countries) == 0 && len(message.Cities) == 0 {
		return nil, fmt.Errorf("%w: import batch is empty", model.ErrInvalidQuery)
	}
	if err := model.ValidatePlacesImport(message); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidQuery, err)
	}

	chunks := splitPlaces(message, uc.chunkSize)
	messages := make([]queue.BatchMessage, len(chunks))
	for i, chunk := range chunks {
		messages[i] = queue.BatchMessage{MessageID: uuid.NewString(), Body: chunk}
	}

	result, err := uc.queueSender.SendMessageBatch(ctx, uc.queueName, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue places import: %w", err)
	}

	for _, failedID := range result.Failed {
		log.Warn("Failed to enqueue places import chunk", zap.String("message_id", failedID), zap.String("queue", uc.queueName))
	}
	log.Info("Places import enqueued",
		zap.String("queue", uc.queueName),
		zap.Int("enqueued", len(result.Successful)),
		zap.Int("failed", len(result.Failed)))

	return &model.EnqueueResult{MessageIDs: result.Successful, Failed: result.Failed}, nil
}

// splitPlaces chunks the cities and attaches to each chunk the batch countries its cities reference.
// Countries no city references travel in their own chunks.
func splitPlaces(message model.PlacesImportMessage, size int) []model.PlacesImportMessage {
	byCode := make(map[string]model.CountryDTO, len(message.Countries))
	for _, c := range message.Countries {
		byCode[strings.ToUpper(c.Alpha2Code)] = c
	}

	referenced := make(map[string]bool)
	var chunks []model.PlacesImportMessage
	for start := 0; start < len(message.Cities); start += size {
		chunk := model.PlacesImportMessage{Cities: message.Cities[start:min(start+size, len(message.Cities))]}
		inChunk := make(map[string]bool)
		for _, city := range chunk.Cities {
			code := strings.ToUpper(city.Alpha2Code)
			c, ok := byCode[code]
			if !ok || inChunk[code] {
				continue
			}
			inChunk[code] = true
			referenced[code] = true
			chunk.Countries = append(chunk.Countries, c)
		}
		chunks = append(chunks, chunk)
	}

	var rest []model.CountryDTO
	for _, c := range message.Countries {
		if !referenced[strings.ToUpper(c.Alpha2Code)] {
			rest = append(rest, c)
		}
	}
	for start := 0; start < len(rest); start += size {
		chunks = append(chunks, model.PlacesImportMessage{Countries: rest[start:min(start+size, len(rest))]})
	}
	return chunks
}
