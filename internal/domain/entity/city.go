package entity

import (
	"time"

	"countries-informer/internal/domain/model"
)

// City belongs to one Country. Name is unique per country.
type City struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:120;not null;uniqueIndex:idx_city_country_name"`
	Region    string  `gorm:"size:120"`
	Latitude  float64 `gorm:"not null;default:0"`
	Longitude float64 `gorm:"not null;default:0"`
	CountryID uint    `gorm:"not null;uniqueIndex:idx_city_country_name"`
	Country   *Country
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCity(dto model.CityImportDTO, countryID uint) City {
	return City{
		Name:      dto.Name,
		Region:    dto.Region,
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
		CountryID: countryID,
	}
}

// ToDTO nests the country when it was preloaded.
func (c City) ToDTO() model.CityDTO {
	dto := model.CityDTO{
		ID:        c.ID,
		Name:      c.Name,
		Region:    c.Region,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}
	if c.Country != nil {
		country := c.Country.ToDTO()
		dto.Country = &country
	}
	return dto
}
