// Package docs holds the OpenAPI document for the vaani HTTP API
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["meta"],
                "summary": "Liveness probe",
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["meta"],
                "summary": "Readiness probe, pings configured backends",
                "responses": {
                    "200": { "description": "OK" },
                    "503": { "description": "A backend is unavailable" }
                }
            }
        },
        "/version": {
            "get": {
                "tags": ["meta"],
                "summary": "Build info",
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/pack": {
            "get": {
                "tags": ["meta"],
                "summary": "Rule pack summary",
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/nlu/process": {
            "post": {
                "tags": ["nlu"],
                "summary": "Run the full pipeline on one utterance",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": { "$ref": "#/components/schemas/ProcessRequest" }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": { "$ref": "#/components/schemas/Result" }
                            }
                        }
                    },
                    "504": { "description": "Processing timed out" }
                }
            }
        },
        "/nlu/batch": {
            "post": {
                "tags": ["nlu"],
                "summary": "Run the pipeline on many utterances, results keep input order",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": { "$ref": "#/components/schemas/BatchRequest" }
                        }
                    }
                },
                "responses": {
                    "200": { "description": "OK" },
                    "422": { "description": "Batch larger than the configured cap" }
                }
            }
        },
        "/nlu/language": {
            "post": {
                "tags": ["nlu"],
                "summary": "Language classifier only",
                "requestBody": { "$ref": "#/components/requestBodies/Text" },
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/nlu/intent": {
            "post": {
                "tags": ["nlu"],
                "summary": "Intent matcher only",
                "requestBody": { "$ref": "#/components/requestBodies/Text" },
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/nlu/entities": {
            "post": {
                "tags": ["nlu"],
                "summary": "Entity extractor only",
                "requestBody": { "$ref": "#/components/requestBodies/Text" },
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/nlu/split": {
            "post": {
                "tags": ["nlu"],
                "summary": "Multi-intent splitter only",
                "requestBody": { "$ref": "#/components/requestBodies/Text" },
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/nlu/rules": {
            "get": {
                "tags": ["nlu"],
                "summary": "Intent rules in evaluation order and fallback keywords",
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/nlu/stream": {
            "get": {
                "tags": ["nlu"],
                "summary": "Websocket, one text frame in and one result frame out",
                "responses": {
                    "101": { "description": "Switching Protocols" }
                }
            }
        },
        "/turns": {
            "get": {
                "tags": ["turns"],
                "summary": "Turns of a session, newest first",
                "parameters": [
                    { "name": "session_id", "in": "query", "required": true, "schema": { "type": "string" } },
                    { "name": "limit", "in": "query", "schema": { "type": "integer" } }
                ],
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/turns/{id}": {
            "get": {
                "tags": ["turns"],
                "summary": "One recorded turn",
                "parameters": [
                    { "name": "id", "in": "path", "required": true, "schema": { "type": "string", "format": "uuid" } }
                ],
                "responses": {
                    "200": { "description": "OK" },
                    "404": { "description": "Not Found" }
                }
            }
        },
        "/analytics/intents": {
            "get": {
                "tags": ["analytics"],
                "summary": "Intent counts in a window",
                "parameters": [
                    { "$ref": "#/components/parameters/Since" },
                    { "$ref": "#/components/parameters/Until" }
                ],
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        },
        "/analytics/languages": {
            "get": {
                "tags": ["analytics"],
                "summary": "Language counts in a window",
                "parameters": [
                    { "$ref": "#/components/parameters/Since" },
                    { "$ref": "#/components/parameters/Until" }
                ],
                "responses": {
                    "200": { "description": "OK" }
                }
            }
        }
    },
    "components": {
        "parameters": {
            "Since": { "name": "since", "in": "query", "description": "RFC3339 or a duration back from now such as 24h or 7d", "schema": { "type": "string" } },
            "Until": { "name": "until", "in": "query", "description": "RFC3339 or a duration back from now", "schema": { "type": "string" } }
        },
        "requestBodies": {
            "Text": {
                "required": true,
                "content": {
                    "application/json": {
                        "schema": { "$ref": "#/components/schemas/TextRequest" }
                    }
                }
            }
        },
        "schemas": {
            "TextRequest": {
                "type": "object",
                "properties": {
                    "text": { "type": "string", "maxLength": 2000 }
                }
            },
            "ProcessRequest": {
                "type": "object",
                "properties": {
                    "text": { "type": "string", "maxLength": 2000 },
                    "session_id": { "type": "string" }
                }
            },
            "BatchRequest": {
                "type": "object",
                "required": ["texts"],
                "properties": {
                    "texts": { "type": "array", "minItems": 1, "items": { "type": "string", "maxLength": 2000 } }
                }
            },
            "Result": {
                "type": "object",
                "properties": {
                    "text": { "type": "string" },
                    "intent": { "type": "string" },
                    "intents": { "type": "array", "items": { "type": "object" } },
                    "entities": { "type": "object" },
                    "confidence": { "type": "number" },
                    "language": { "type": "string" },
                    "source": { "type": "string" },
                    "timestamp": { "type": "string", "format": "date-time" }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "vaani API",
	Description:      "English, Hindi and Hinglish intent and language pipeline",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
