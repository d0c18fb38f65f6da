package model

import (
	"encoding/json"
	"reflect"
	"slices"

	"countries-informer/internal/domain/model/external"
	"countries-informer/pkg/util/numberutils"
)

type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type WeatherDescription struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type MainWeather struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
	SeaLevel  int     `json:"sea_level"`
	GrndLevel int     `json:"grnd_level"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
	Gust  float64 `json:"gust"`
}

type Clouds struct {
	All int `json:"all"`
}

type Sys struct {
	Type    Optional[int] `json:"type"`
	ID      Optional[int] `json:"id"`
	Country string        `json:"country"`
	Sunrise int64         `json:"sunrise"`
	Sunset  int64         `json:"sunset"`
}

// WeatherDTO is the normalized current weather of one location.
// The conditions list is unexported and only handed out as a copy, so a value can be shared freely.
type WeatherDTO struct {
	Coord      Coordinates `json:"coord"`
	Base       string      `json:"base"`
	Main       MainWeather `json:"main"`
	Visibility int         `json:"visibility"`
	Wind       Wind        `json:"wind"`
	Clouds     Clouds      `json:"clouds"`
	Dt         int64       `json:"dt"`
	Sys        Sys         `json:"sys"`
	Timezone   int         `json:"timezone"`
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Cod        int         `json:"cod"`

	conditions []WeatherDescription
}

// WeatherInfoDTO is the flat summary served by the weather summary endpoint.
type WeatherInfoDTO struct {
	Temp        float64 `json:"temp"`
	Pressure    int     `json:"pressure"`
	Humidity    int     `json:"humidity"`
	Visibility  int     `json:"visibility"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
}

// Conditions returns a copy of the reported weather conditions, most relevant first.
func (w WeatherDTO) Conditions() []WeatherDescription {
	return slices.Clone(w.conditions)
}

// Info projects the summary. The description comes from the first condition.
func (w WeatherDTO) Info() WeatherInfoDTO {
	info := WeatherInfoDTO{
		Temp:       w.Main.Temp,
		Pressure:   w.Main.Pressure,
		Humidity:   w.Main.Humidity,
		Visibility: w.Visibility,
		WindSpeed:  w.Wind.Speed,
	}
	if len(w.conditions) > 0 {
		info.Description = w.conditions[0].Description
	}
	return info
}

func (w WeatherDTO) Equal(other WeatherDTO) bool {
	return reflect.DeepEqual(w, other)
}

func (w WeatherDTO) Hash() uint64 {
	return hashOf(w)
}

type weatherAlias WeatherDTO

func (w WeatherDTO) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		weatherAlias
		Weather []WeatherDescription `json:"weather"`
	}{weatherAlias(w), w.conditions})
}

func (w *WeatherDTO) UnmarshalJSON(data []byte) error {
	aux := struct {
		*weatherAlias
		Weather []WeatherDescription `json:"weather"`
	}{weatherAlias: (*weatherAlias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.conditions = aux.Weather
	return nil
}

// NormalizeWeather validates an OpenWeather payload and maps it to a WeatherDTO.
func NormalizeWeather(raw *external.OpenWeatherResponse) (*WeatherDTO, error) {
	const schema = "weather"
	if raw == nil {
		return nil, &ValidationError{Schema: schema, Fields: []FieldError{{Field: schema, Rule: "required"}}}
	}
	if err := validateStruct(schema, raw); err != nil {
		return nil, err
	}

	fe := &fieldErrors{schema: schema}

	conditions := make([]WeatherDescription, len(raw.Weather))
	for i, c := range raw.Weather {
		conditions[i] = WeatherDescription{
			ID:          fe.toInt("weather.id", *c.ID),
			Main:        *c.Main,
			Description: *c.Description,
			Icon:        *c.Icon,
		}
	}

	dto := &WeatherDTO{
		Coord: Coordinates{Lon: *raw.Coord.Lon, Lat: *raw.Coord.Lat},
		Base:  *raw.Base,
		Main: MainWeather{
			Temp:      *raw.Main.Temp,
			FeelsLike: *raw.Main.FeelsLike,
			TempMin:   *raw.Main.TempMin,
			TempMax:   *raw.Main.TempMax,
			Pressure:  fe.toInt("main.pressure", *raw.Main.Pressure),
			Humidity:  fe.toInt("main.humidity", *raw.Main.Humidity),
			SeaLevel:  fe.toInt("main.sea_level", *raw.Main.SeaLevel),
			GrndLevel: fe.toInt("main.grnd_level", *raw.Main.GrndLevel),
		},
		Visibility: fe.toInt("visibility", *raw.Visibility),
		Wind: Wind{
			Speed: *raw.Wind.Speed,
			Deg:   fe.toInt("wind.deg", *raw.Wind.Deg),
			Gust:  *raw.Wind.Gust,
		},
		Clouds: Clouds{All: fe.toInt("clouds.all", *raw.Clouds.All)},
		Dt:     fe.toInt64("dt", *raw.Dt),
		Sys: Sys{
			Type:    fe.toOptionalInt("sys.type", raw.Sys.Type),
			ID:      fe.toOptionalInt("sys.id", raw.Sys.ID),
			Country: *raw.Sys.Country,
			Sunrise: fe.toInt64("sys.sunrise", *raw.Sys.Sunrise),
			Sunset:  fe.toInt64("sys.sunset", *raw.Sys.Sunset),
		},
		Timezone:   fe.toInt("timezone", *raw.Timezone),
		ID:         fe.toInt("id", *raw.ID),
		Name:       *raw.Name,
		Cod:        fe.toInt("cod", *raw.Cod),
		conditions: conditions,
	}

	if err := fe.err(); err != nil {
		return nil, err
	}
	return dto, nil
}

func (f *fieldErrors) toInt(field string, v float64) int {
	i, err := numberutils.FloatToInt(v)
	if err != nil {
		f.add(field, "integer")
	}
	return i
}

func (f *fieldErrors) toInt64(field string, v float64) int64 {
	i, err := numberutils.FloatToInt64(v)
	if err != nil {
		f.add(field, "integer")
	}
	return i
}

func (f *fieldErrors) toOptionalInt(field string, v *float64) Optional[int] {
	if v == nil {
		return None[int]()
	}
	return Some(f.toInt(field, *v))
}
