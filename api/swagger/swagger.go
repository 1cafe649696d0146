package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "miniCanvas API",
        "description": "Courses, users, assignments and submissions held in memory",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "System", "description": "Greeting and probes"},
        {"name": "Courses", "description": "Course registry and rosters"},
        {"name": "Assignments", "description": "Assignments and submissions"},
        {"name": "Users", "description": "User registry"},
        {"name": "Sync", "description": "Course persistence"}
    ],
    "paths": {
        "/": {
            "get": {
                "tags": ["System"],
                "summary": "Greeting",
                "responses": {
                    "200": {"description": "Welcome message", "schema": {"type": "string"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is down", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{course}": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course",
                "description": "The path segment is the course code. Returns the new course id as a bare integer.",
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherListBody"}}
                ],
                "responses": {
                    "200": {"description": "Course id", "schema": {"type": "integer"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Courses"],
                "summary": "Get a course",
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{course}/students": {
            "put": {
                "tags": ["Courses"],
                "summary": "Replace a course's students",
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportStudentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Imported"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{course}/roster": {
            "get": {
                "tags": ["Courses"],
                "summary": "Export a course roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Roster document", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{course}/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create an assignment",
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{course}/assignments/{assignment}/submissions": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List submissions",
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "integer"},
                    {"name": "assignment", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Submit an answer",
                "parameters": [
                    {"name": "course", "in": "path", "required": true, "type": "integer"},
                    {"name": "assignment", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"name": "ids", "in": "query", "type": "string", "description": "Comma separated user ids"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Register a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{user}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get a user",
                "parameters": [
                    {"name": "user", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sync": {
            "post": {
                "tags": ["Sync"],
                "summary": "Enqueue a course sync",
                "responses": {
                    "202": {"description": "Enqueued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A sync is already pending", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Sync disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TeacherListBody": {
            "type": "object",
            "properties": {
                "teacher_id_list": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "ImportStudentsRequest": {
            "type": "object",
            "properties": {
                "student_id_list": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "required": ["due_date"],
            "properties": {
                "due_date": {"type": "string"}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "integer"},
                "answer": {"type": "string"}
            }
        },
        "CreateUserRequest": {
            "type": "object",
            "required": ["name", "type"],
            "properties": {
                "name": {"type": "string"},
                "password": {"type": "string"},
                "type": {"type": "string", "example": "student"}
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
