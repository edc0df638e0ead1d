// Package docs holds the OpenAPI document served under /swagger/.
// It is generated by swaggo/swag from the handler annotations; regenerate with
// `swag init -g cmd/api/main.go` after changing them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/news": {
            "get": {
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "List news",
                "parameters": [
                    {"type": "integer", "description": "Page number (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/news/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "Get news item",
                "parameters": [
                    {"type": "integer", "description": "News ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/timeline/{newsId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "Timeline of the groups a news item belongs to",
                "parameters": [
                    {"type": "integer", "description": "News ID", "name": "newsId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/getAllSides/{newsId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "All-sides view of a news item",
                "parameters": [
                    {"type": "integer", "description": "News ID", "name": "newsId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/getAiAnswer/{question}/{newsId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "Answer a question about a news item",
                "parameters": [
                    {"type": "string", "description": "Question", "name": "question", "in": "path", "required": true},
                    {"type": "integer", "description": "News ID", "name": "newsId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/groups": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "List groups",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Create group",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/groups/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Get group",
                "parameters": [
                    {"type": "integer", "description": "Group ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/groups/{id}/news": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "News of a group",
                "parameters": [
                    {"type": "integer", "description": "Group ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/follow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Follow group",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/groups/{id}/unfollow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Unfollow group",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/getFollowUp": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Groups followed by the caller",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ingest": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Run ingestion",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "A run is already in progress", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "502": {"description": "Feed unavailable", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "respond.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT as \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Topicfeed API",
	Description:      "News ingestion with AI topic grouping, timelines and group subscriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
