// Package docs registers the OpenAPI document served under /swagger
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
        "/conversion": {
            "get": {
                "description": "Converts an amount using the latest euro reference rates. The result is rounded half-up to two decimals.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["conversion"],
                "summary": "Convert an amount between currencies",
                "parameters": [
                    {"maxLength": 3, "minLength": 3, "type": "string", "example": "EUR", "description": "Source currency code", "name": "sourceCurrency", "in": "query", "required": true},
                    {"maxLength": 3, "minLength": 3, "type": "string", "example": "USD", "description": "Target currency code", "name": "targetCurrency", "in": "query", "required": true},
                    {"type": "string", "example": "100.00", "description": "Amount with a dot decimal separator", "name": "amount", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ConversionResponse"}},
                    "400": {"description": "Invalid parameters or unsupported currency", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Exchange rate integration unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/currencies": {
            "get": {
                "description": "Returns the codes of every currency that can be converted",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["conversion"],
                "summary": "List supported currencies",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Exchange rate integration unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API and its dependencies",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}},
                    "503": {"description": "A dependency is down", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ConversionResponse": {
            "type": "object",
            "properties": {
                "convertedAmount": {"type": "string", "example": "108.20"},
                "date": {"type": "string", "example": "2024-03-20"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VALIDATION_ERROR"},
                "fields": {"type": "array", "items": {"type": "string"}, "example": ["sourceCurrency"]},
                "message": {"type": "string", "example": "Source currency is not valid"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string", "example": "healthy"},
                "time": {"type": "string", "example": "2024-03-20T13:00:00Z"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Currency Conversion API",
	Description:      "Converts amounts between currencies using daily euro reference rates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
