package entity

import (
	"time"

	"countries-informer/internal/domain/model"

	"github.com/lib/pq"
)

type Country struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"size:120;not null;index"`
	Alpha2Code  string         `gorm:"size:2;not null;uniqueIndex"`
	Alpha3Code  string         `gorm:"size:3"`
	Capital     string         `gorm:"size:120"`
	Region      string         `gorm:"size:60"`
	Subregion   string         `gorm:"size:60"`
	Population  int64          `gorm:"not null;default:0"`
	Latitude    float64        `gorm:"not null;default:0"`
	Longitude   float64        `gorm:"not null;default:0"`
	Demonym     string         `gorm:"size:60"`
	Area        float64        `gorm:"not null;default:0"`
	NumericCode string         `gorm:"size:3"`
	Flag        string         `gorm:"size:255"`
	Currencies  pq.StringArray `gorm:"type:text[]"`
	Languages   pq.StringArray `gorm:"type:text[]"`
	Cities      []City         `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewCountry(dto model.CountryDTO) Country {
	return Country{
		ID:          dto.ID,
		Name:        dto.Name,
		Alpha2Code:  dto.Alpha2Code,
		Alpha3Code:  dto.Alpha3Code,
		Capital:     dto.Capital,
		Region:      dto.Region,
		Subregion:   dto.Subregion,
		Population:  dto.Population,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		Demonym:     dto.Demonym,
		Area:        dto.Area,
		NumericCode: dto.NumericCode,
		Flag:        dto.Flag,
		Currencies:  pq.StringArray(dto.Currencies),
		Languages:   pq.StringArray(dto.Languages),
	}
}

func (c Country) ToDTO() model.CountryDTO {
	return model.CountryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Alpha2Code:  c.Alpha2Code,
		Alpha3Code:  c.Alpha3Code,
		Capital:     c.Capital,
		Region:      c.Region,
		Subregion:   c.Subregion,
		Population:  c.Population,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		Demonym:     c.Demonym,
		Area:        c.Area,
		NumericCode: c.NumericCode,
		Flag:        c.Flag,
		Currencies:  nonNil(c.Currencies),
		Languages:   nonNil(c.Languages),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}
