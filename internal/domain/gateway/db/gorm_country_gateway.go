package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"countries-informer/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 200

type GormCountryGateway struct {
	DB *gorm.DB
}

var _ CountryGateway = (*GormCountryGateway)(nil)

func NewGormCountryGateway(db *gorm.DB) *GormCountryGateway {
	return &GormCountryGateway{DB: db}
}

func (gateway *GormCountryGateway) FindByName(ctx context.Context, name string) ([]entity.Country, error) {
	var countries []entity.Country
	err := gateway.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ?", escapeLike(strings.ToLower(name))+"%").
		Order("name").
		Find(&countries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find countries by name: %w", err)
	}
	return countries, nil
}

func (gateway *GormCountryGateway) FindByAlpha2(ctx context.Context, alpha2Code string) (*entity.Country, error) {
	var country entity.Country
	err := gateway.DB.WithContext(ctx).
		Where("alpha2_code = ?", strings.ToUpper(alpha2Code)).
		First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find country %s: %w", alpha2Code, err)
	}
	return &country, nil
}

func (gateway *GormCountryGateway) FindByAlpha2Codes(ctx context.Context, alpha2Codes []string) ([]entity.Country, error) {
	if len(alpha2Codes) == 0 {
		return nil, nil
	}
	var countries []entity.Country
	if err := gateway.DB.WithContext(ctx).Where("alpha2_code IN ?", alpha2Codes).Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("failed to find countries by codes: %w", err)
	}
	return countries, nil
}

func (gateway *GormCountryGateway) UpsertCountries(ctx context.Context, countries []entity.Country) ([]entity.Country, error) {
	if len(countries) == 0 {
		return nil, nil
	}

	err := gateway.DB.WithContext(ctx).
		Omit("Cities").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "alpha2_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "alpha3_code", "capital", "region", "subregion", "population", "latitude", "longitude",
				"demonym", "area", "numeric_code", "flag", "currencies", "languages", "updated_at",
			}),
		}).
		CreateInBatches(&countries, upsertBatchSize).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert countries: %w", err)
	}

	codes := make([]string, len(countries))
	for i, c := range countries {
		codes[i] = c.Alpha2Code
	}
	return gateway.FindByAlpha2Codes(ctx, codes)
}

func (gateway *GormCountryGateway) citiesQuery(ctx context.Context, alpha2Code string) *gorm.DB {
	query := gateway.DB.WithContext(ctx).Model(&entity.City{})
	if alpha2Code != "" {
		query = query.
			Joins("JOIN countries ON countries.id = cities.country_id").
			Where("countries.alpha2_code = ?", strings.ToUpper(alpha2Code))
	}
	return query
}

func (gateway *GormCountryGateway) FindCities(ctx context.Context, alpha2Code string, page int, size int) ([]entity.City, error) {
	var cities []entity.City
	err := gateway.citiesQuery(ctx, alpha2Code).
		Preload("Country").
		Order("cities.name").
		Offset(page * size).
		Limit(size).
		Find(&cities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cities: %w", err)
	}
	return cities, nil
}

func (gateway *GormCountryGateway) CountCities(ctx context.Context, alpha2Code string) (int64, error) {
	var total int64
	if err := gateway.citiesQuery(ctx, alpha2Code).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count cities: %w", err)
	}
	return total, nil
}

func (gateway *GormCountryGateway) UpsertCities(ctx context.Context, cities []entity.City) (int64, error) {
	if len(cities) == 0 {
		return 0, nil
	}
	result := gateway.DB.WithContext(ctx).
		Omit("Country").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "country_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"region", "latitude", "longitude", "updated_at"}),
		}).
		CreateInBatches(&cities, upsertBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert cities: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
