package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Lemdik Scheduling API",
        "description": "Two-phase term scheduling for academy training teams",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Subject placement and resource assignment"},
        {"name": "Diagnostics", "description": "Usage aggregate inspection"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate term schedules for every team of a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/assign": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Run the resource assignment batch over pending documents",
                "parameters": [
                    {"name": "wait", "in": "query", "type": "boolean", "description": "Run inline and return the batch result"}
                ],
                "responses": {
                    "200": {"description": "Batch result", "schema": {"$ref": "#/definitions/BatchResult"}},
                    "202": {"description": "Batch enqueued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A batch is already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{teamId}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Fetch the processed weekly documents for a team",
                "parameters": [
                    {"name": "teamId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Team not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a course's schedule documents and rebuild the usage aggregate",
                "parameters": [
                    {"name": "courseId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/usage-records": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "List the per-slot lecturer and location usage aggregate",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "startDate": {"type": "string", "example": "2026-01-05"},
                "endDate": {"type": "string", "example": "2026-06-27"}
            },
            "required": ["courseId", "startDate", "endDate"]
        },
        "SessionRecord": {
            "type": "object",
            "properties": {
                "week": {"type": "integer"},
                "teamId": {"type": "string"},
                "subjectId": {"type": "string", "x-nullable": true},
                "date": {"type": "string"},
                "dayOfWeek": {"type": "string"},
                "session": {"type": "string", "enum": ["morning", "afternoon", "evening"]},
                "lecturerId": {"type": "string", "x-nullable": true},
                "locationId": {"type": "string", "x-nullable": true}
            }
        },
        "BatchResult": {
            "type": "object",
            "properties": {
                "processedFiles": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ProcessedFile"}
                },
                "errors": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/BatchError"}
                }
            }
        },
        "ProcessedFile": {
            "type": "object",
            "properties": {
                "teamId": {"type": "string"},
                "filename": {"type": "string"}
            }
        },
        "BatchError": {
            "type": "object",
            "properties": {
                "teamId": {"type": "string"},
                "filename": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "UsageRecordView": {
            "type": "object",
            "properties": {
                "slotKey": {"type": "string", "example": "morning_2026-01-05"},
                "lecturerIds": {"type": "array", "items": {"type": "string"}},
                "locationCounts": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
