package external

// OpenWeatherResponse is the current weather payload returned by OpenWeather /data/2.5/weather.
// Numbers are decoded as float64 so that integral fields accept both 1025 and 1025.0.
type OpenWeatherResponse struct {
	Coord      *OpenWeatherCoord      `json:"coord" validate:"required"`
	Weather    []OpenWeatherCondition `json:"weather" validate:"required,min=1,dive"`
	Base       *string                `json:"base" validate:"required"`
	Main       *OpenWeatherMain       `json:"main" validate:"required"`
	Visibility *float64               `json:"visibility" validate:"required"`
	Wind       *OpenWeatherWind       `json:"wind" validate:"required"`
	Clouds     *OpenWeatherClouds     `json:"clouds" validate:"required"`
	Dt         *float64               `json:"dt" validate:"required"`
	Sys        *OpenWeatherSys        `json:"sys" validate:"required"`
	Timezone   *float64               `json:"timezone" validate:"required"`
	ID         *float64               `json:"id" validate:"required"`
	Name       *string                `json:"name" validate:"required"`
	Cod        *float64               `json:"cod" validate:"required"`
}

type OpenWeatherCoord struct {
	Lon *float64 `json:"lon" validate:"required"`
	Lat *float64 `json:"lat" validate:"required"`
}

type OpenWeatherCondition struct {
	ID          *float64 `json:"id" validate:"required"`
	Main        *string  `json:"main" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Icon        *string  `json:"icon" validate:"required"`
}

type OpenWeatherMain struct {
	Temp      *float64 `json:"temp" validate:"required"`
	FeelsLike *float64 `json:"feels_like" validate:"required"`
	TempMin   *float64 `json:"temp_min" validate:"required"`
	TempMax   *float64 `json:"temp_max" validate:"required"`
	Pressure  *float64 `json:"pressure" validate:"required"`
	Humidity  *float64 `json:"humidity" validate:"required"`
	SeaLevel  *float64 `json:"sea_level" validate:"required"`
	GrndLevel *float64 `json:"grnd_level" validate:"required"`
}

type OpenWeatherWind struct {
	Speed *float64 `json:"speed" validate:"required"`
	Deg   *float64 `json:"deg" validate:"required"`
	Gust  *float64 `json:"gust" validate:"required"`
}

type OpenWeatherClouds struct {
	All *float64 `json:"all" validate:"required"`
}

// OpenWeatherSys carries the location block. Type and ID may be missing or null.
type OpenWeatherSys struct {
	Type    *float64 `json:"type"`
	ID      *float64 `json:"id"`
	Country *string  `json:"country" validate:"required"`
	Sunrise *float64 `json:"sunrise" validate:"required"`
	Sunset  *float64 `json:"sunset" validate:"required"`
}

// OpenWeatherError is the body OpenWeather sends with non-2xx answers.
type OpenWeatherError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}
