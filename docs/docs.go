// Package docs holds the OpenAPI document served under /swagger.
// Keep it in step with the annotations in internal/handler.
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
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Describe the service",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.IndexResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Database and cache health",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/recommendations": {
            "get": {
                "description": "Equality filters are ANDed. Pagination applies only when page or limit is given.",
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "List recommendations",
                "parameters": [
                    {"type": "integer", "description": "Product id", "name": "product_id", "in": "query"},
                    {"type": "integer", "description": "Recommended product id", "name": "recommended_id", "in": "query"},
                    {"type": "string", "description": "cross-sell, up-sell or accessory", "name": "recommendation_type", "in": "query"},
                    {"type": "string", "description": "active, expired or draft", "name": "status", "in": "query"},
                    {"type": "string", "description": "RFC 3339 timestamp or YYYY-MM-DD", "name": "created_at_min", "in": "query"},
                    {"type": "string", "description": "RFC 3339 timestamp or YYYY-MM-DD (a date includes that whole day)", "name": "created_at_max", "in": "query"},
                    {"type": "string", "description": "created_at, product_id, recommended_id or last_updated", "name": "sort_by", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "order", "in": "query"},
                    {"type": "integer", "description": "1-based page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.RecommendationResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Create a recommendation",
                "parameters": [
                    {"description": "product_id, recommended_id, recommendation_type, status, like, dislike", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RecommendationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/recommendations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Read a recommendation",
                "parameters": [
                    {"type": "integer", "description": "Recommendation id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RecommendationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "put": {
                "description": "All business fields are required. Sending last_updated makes the write conditional on it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Replace a recommendation",
                "parameters": [
                    {"type": "integer", "description": "Recommendation id", "name": "id", "in": "path", "required": true},
                    {"description": "Full recommendation", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RecommendationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Partially update a recommendation",
                "parameters": [
                    {"type": "integer", "description": "Recommendation id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RecommendationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "delete": {
                "description": "Deleting a missing id also answers 204.",
                "tags": ["recommendations"],
                "summary": "Delete a recommendation",
                "parameters": [
                    {"type": "integer", "description": "Recommendation id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/recommendations/{id}/like": {
            "put": {
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Like a recommendation",
                "parameters": [
                    {"type": "integer", "description": "Recommendation id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RecommendationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "apierror.APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "dto.IndexResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "paths": {"type": "object", "additionalProperties": {"type": "string"}},
                "version": {"type": "string"}
            }
        },
        "dto.RecommendationResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "dislike": {"type": "integer"},
                "id": {"type": "integer"},
                "last_updated": {"type": "string"},
                "like": {"type": "integer"},
                "product_id": {"type": "integer"},
                "recommendation_type": {"type": "string"},
                "recommended_id": {"type": "integer"},
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Recommendation REST API Service",
	Description:      "CRUD for product recommendations with optimistic concurrency on last_updated.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
