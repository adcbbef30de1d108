// Package docs holds the OpenAPI description of the dev backend, registered
// with swag so gin-swagger can serve it.
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
        "/": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "List the tables exposed under /rest/v1",
                "produces": ["application/json"],
                "tags": ["tables"],
                "summary": "List tables",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TablesResponse"}},
                    "401": {"description": "Invalid API key", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/{table}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Read rows with optional projection, ordering, and eq filters",
                "produces": ["application/json"],
                "tags": ["tables"],
                "summary": "Select rows",
                "parameters": [
                    {"type": "string", "description": "Table name", "name": "table", "in": "path", "required": true},
                    {"type": "string", "default": "*", "description": "Comma separated columns", "name": "select", "in": "query"},
                    {"type": "string", "description": "Ordering, e.g. name.asc", "name": "order", "in": "query"},
                    {"type": "integer", "description": "Maximum rows", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "406": {"description": "Single object requested, zero or many rows matched", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Insert one row. With Prefer: return=representation the stored row is returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tables"],
                "summary": "Insert a row",
                "parameters": [
                    {"type": "string", "description": "Table name", "name": "table", "in": "path", "required": true},
                    {"type": "string", "description": "return=representation", "name": "Prefer", "in": "header"},
                    {"description": "Row", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Missing or invalid columns", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Apply a partial update to the row matching the eq filters",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tables"],
                "summary": "Update a row",
                "parameters": [
                    {"type": "string", "description": "Table name", "name": "table", "in": "path", "required": true},
                    {"description": "Columns to change", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Missing filter or invalid body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "406": {"description": "No row matched", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Delete the rows matching the eq filters. At least one filter is required.",
                "tags": ["tables"],
                "summary": "Delete rows",
                "parameters": [
                    {"type": "string", "description": "Table name", "name": "table", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Missing filter", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "PGRST116"},
                "details": {"type": "string"},
                "hint": {"type": "string"},
                "message": {"type": "string", "example": "JSON object requested, multiple (or no) rows returned"}
            }
        },
        "handlers.TablesResponse": {
            "type": "object",
            "properties": {
                "tables": {"type": "array", "items": {"type": "string"}, "example": ["categories", "prompts"]}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Project key (HS256 JWT) issued by promptdeck keygen.",
            "type": "apiKey",
            "name": "apikey",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/rest/v1",
	Schemes:          []string{},
	Title:            "Promptdeck Dev Backend",
	Description:      "A PostgREST-compatible table API over the prompt library, for local development and tests.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
