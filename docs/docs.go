// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/countries-informer/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/weather/{alpha2code}/{city}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Get the current weather of a city",
                "parameters": [
                    {"type": "string", "description": "ISO 3166-1 alpha-2 country code", "name": "alpha2code", "in": "path", "required": true},
                    {"type": "string", "description": "City name", "name": "city", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WeatherDTO"}},
                    "400": {"description": "Invalid location", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "404": {"description": "No weather data", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "502": {"description": "Upstream payload failed validation", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "503": {"description": "Cache unavailable", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/weather/{alpha2code}/{city}/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Get a weather summary of a city",
                "parameters": [
                    {"type": "string", "description": "ISO 3166-1 alpha-2 country code", "name": "alpha2code", "in": "path", "required": true},
                    {"type": "string", "description": "City name", "name": "city", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WeatherInfoDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/currency/{base}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Get exchange rates of a base currency",
                "parameters": [
                    {"type": "string", "description": "ISO 4217 currency code", "name": "base", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CurrencyRatesDTO"}},
                    "404": {"description": "No rates available", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/news": {
            "get": {
                "description": "At least one of country, q or category is required",
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "Get top headlines",
                "parameters": [
                    {"type": "string", "name": "country", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "integer", "default": 20, "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.NewsItemDTO"}}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/countries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["countries"],
                "summary": "Search countries by name",
                "parameters": [
                    {"type": "string", "description": "Country name or prefix", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.CountryDTO"}}},
                    "404": {"description": "No country matched", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/countries/{alpha2code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["countries"],
                "summary": "Get a stored country",
                "parameters": [
                    {"type": "string", "name": "alpha2code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CountryDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/cities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["countries"],
                "summary": "List stored cities",
                "parameters": [
                    {"type": "string", "name": "alpha2code", "in": "query"},
                    {"type": "integer", "default": 0, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Store disabled", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/places/import": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Enqueue a places import batch",
                "parameters": [
                    {"description": "Countries and cities to import", "name": "batch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PlacesImportMessage"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/model.EnqueueResult"}},
                    "400": {"description": "Invalid batch", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "503": {"description": "Queue disabled", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/cache/{namespace}": {
            "delete": {
                "tags": ["cache"],
                "summary": "Flush a cache namespace",
                "parameters": [
                    {"type": "string", "name": "namespace", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Unknown namespace", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Application health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/model.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controller.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/model.FieldError"}}
            }
        },
        "model.FieldError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "rule": {"type": "string"}}
        },
        "model.WeatherDTO": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "id": {"type": "integer"}, "cod": {"type": "integer"},
                "dt": {"type": "integer"}, "timezone": {"type": "integer"}, "visibility": {"type": "integer"},
                "base": {"type": "string"}, "coord": {"type": "object"}, "main": {"type": "object"},
                "wind": {"type": "object"}, "clouds": {"type": "object"}, "sys": {"type": "object"},
                "weather": {"type": "array", "items": {"type": "object"}}
            }
        },
        "model.WeatherInfoDTO": {
            "type": "object",
            "properties": {
                "temp": {"type": "number"}, "pressure": {"type": "integer"}, "humidity": {"type": "integer"},
                "visibility": {"type": "integer"}, "wind_speed": {"type": "number"}, "description": {"type": "string"}
            }
        },
        "model.CurrencyRatesDTO": {
            "type": "object",
            "properties": {
                "base": {"type": "string"}, "date": {"type": "string"},
                "rates": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "model.NewsItemDTO": {
            "type": "object",
            "properties": {
                "source": {"type": "string"}, "author": {"type": "string"}, "title": {"type": "string"},
                "description": {"type": "string"}, "url": {"type": "string"}, "published_at": {"type": "string"}
            }
        },
        "model.CountryDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "name": {"type": "string"}, "alpha2code": {"type": "string"},
                "alpha3code": {"type": "string"}, "capital": {"type": "string"}, "region": {"type": "string"},
                "subregion": {"type": "string"}, "population": {"type": "integer"}, "latitude": {"type": "number"},
                "longitude": {"type": "number"}, "demonym": {"type": "string"}, "area": {"type": "number"},
                "numeric_code": {"type": "string"}, "flag": {"type": "string"},
                "currencies": {"type": "array", "items": {"type": "string"}},
                "languages": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.CityImportDTO": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "region": {"type": "string"}, "latitude": {"type": "number"},
                "longitude": {"type": "number"}, "alpha2code": {"type": "string"}
            }
        },
        "model.PlacesImportMessage": {
            "type": "object",
            "properties": {
                "countries": {"type": "array", "items": {"$ref": "#/definitions/model.CountryDTO"}},
                "cities": {"type": "array", "items": {"$ref": "#/definitions/model.CityImportDTO"}}
            }
        },
        "model.EnqueueResult": {
            "type": "object",
            "properties": {
                "message_ids": {"type": "array", "items": {"type": "string"}},
                "failed": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}, "database": {"type": "object"}, "queue": {"type": "object"},
                "cache": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "countries-informer API",
	Description:      "Weather, exchange rates, headlines and country data behind a per-domain cache.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
