package model

// PlacesImportMessage is the body of a places_import queue message.
type PlacesImportMessage struct {
	Countries []CountryDTO    `json:"countries" validate:"dive"`
	Cities    []CityImportDTO `json:"cities" validate:"dive"`
}

// CityImportDTO references its country by alpha-2 code.
type CityImportDTO struct {
	Name       string  `json:"name" validate:"required"`
	Region     string  `json:"region"`
	Latitude   float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude  float64 `json:"longitude" validate:"min=-180,max=180"`
	Alpha2Code string  `json:"alpha2code" validate:"required,len=2,alpha"`
}

// ImportResult counts what an import batch changed.
type ImportResult struct {
	Countries     int `json:"countries"`
	Cities        int `json:"cities"`
	SkippedCities int `json:"skipped_cities"`
}

// EnqueueResult reports the messages accepted by the queue.
type EnqueueResult struct {
	MessageIDs []string `json:"message_ids"`
	Failed     []string `json:"failed"`
}

// ValidatePlacesImport checks an import batch before it is enqueued or applied.
func ValidatePlacesImport(message PlacesImportMessage) error {
	return validateStruct("places_import", message)
}
