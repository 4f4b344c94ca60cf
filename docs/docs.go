// Package docs registers the Swagger 2.0 document served at /docs.
//
// The document is maintained by hand in the layout swag init produces and is
// kept in step with the handler annotations and DTO json tags by docs_test.go.
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
        "/analytics/daily/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Invokes the daily analytics rollup procedure and echoes the token subject that requested it.",
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Recompute today's rollup",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tracking.StatusResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/tracking.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/tracking.ErrorResponse"}}
                }
            }
        },
        "/analytics/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns totals, rates and breakdowns for the selected period",
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Visitor analytics dashboard",
                "parameters": [
                    {"type": "string", "default": "today", "description": "Period: today | week | month", "name": "period", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analytics.DashboardResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/analytics.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/analytics.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/analytics.ErrorResponse"}}
                }
            }
        },
        "/reveal/plan": {
            "post": {
                "description": "Returns the staggered animation delay of every eligible item, per group",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Reveal"],
                "summary": "Compute reveal delays",
                "parameters": [
                    {"description": "Reveal groups", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/reveal.PlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reveal.PlanResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/reveal.ErrorResponse"}}
                }
            }
        },
        "/track/views": {
            "post": {
                "description": "Resolves (or creates) the visitor session and opens a view. The returned session_id must be kept by the client.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tracking"],
                "summary": "Start a page view",
                "parameters": [
                    {"description": "View start payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tracking.StartViewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/tracking.StartViewResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/tracking.ErrorResponse"}}
                }
            }
        },
        "/track/views/{id}/pages": {
            "post": {
                "description": "Queues a page visit on the view. The previous page gets its time on page.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tracking"],
                "summary": "Record a page visit",
                "parameters": [
                    {"type": "string", "description": "View ID", "name": "id", "in": "path", "required": true},
                    {"description": "Page visit payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tracking.PageVisitRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/tracking.StatusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/tracking.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/tracking.ErrorResponse"}}
                }
            }
        },
        "/track/views/{id}/unload": {
            "post": {
                "description": "Finalizes the session duration and the time on page of the last visit. Accepts beacon requests without a body.",
                "produces": ["application/json"],
                "tags": ["Tracking"],
                "summary": "Unload a page view",
                "parameters": [
                    {"type": "string", "description": "View ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/tracking.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/tracking.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "analytics.BrowserStatResponse": {
            "type": "object",
            "properties": {
                "browser": {"type": "string", "example": "Chrome"},
                "count": {"type": "integer", "example": 21}
            }
        },
        "analytics.CountryStatResponse": {
            "type": "object",
            "properties": {
                "country": {"type": "string", "example": "Jordan"},
                "count": {"type": "integer", "example": 9}
            }
        },
        "analytics.DashboardResponse": {
            "type": "object",
            "properties": {
                "avg_session_duration": {"type": "number"},
                "bounce_rate": {"type": "number"},
                "browser_stats": {"type": "array", "items": {"$ref": "#/definitions/analytics.BrowserStatResponse"}},
                "country_stats": {"type": "array", "items": {"$ref": "#/definitions/analytics.CountryStatResponse"}},
                "device_stats": {"type": "array", "items": {"$ref": "#/definitions/analytics.DeviceStatResponse"}},
                "period": {"type": "string", "example": "week"},
                "since": {"type": "string", "example": "2026-03-03T15:30:00Z"},
                "top_pages": {"type": "array", "items": {"$ref": "#/definitions/analytics.PageStatResponse"}},
                "total_page_views": {"type": "integer"},
                "total_visitors": {"type": "integer"},
                "unique_visitors": {"type": "integer"}
            }
        },
        "analytics.DeviceStatResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 17},
                "device": {"type": "string", "example": "mobile"}
            }
        },
        "analytics.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_period"},
                "message": {"type": "string", "example": "invalid period, expected today, week or month"}
            }
        },
        "analytics.PageStatResponse": {
            "type": "object",
            "properties": {
                "page": {"type": "string", "example": "/"},
                "views": {"type": "integer", "example": 42}
            }
        },
        "reveal.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_reveal_document"},
                "message": {"type": "string", "example": "invalid reveal document: duplicate id \"hero\""}
            }
        },
        "reveal.PlanGroupRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "features"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/reveal.PlanItemRequest"}},
                "stagger_ms": {"type": "integer", "example": 120}
            }
        },
        "reveal.PlanGroupResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/reveal.PlanItemResponse"}}
            }
        },
        "reveal.PlanItemRequest": {
            "type": "object",
            "properties": {
                "animation_delay": {"type": "string", "example": "250ms"},
                "classes": {"type": "array", "items": {"type": "string"}, "example": ["animate-fade-in-up"]},
                "data_sr": {"type": "boolean"},
                "delay_ms": {"type": "integer"},
                "id": {"type": "string", "example": "feature-1"},
                "index": {"type": "integer"},
                "stagger_ms": {"type": "integer"}
            }
        },
        "reveal.PlanItemResponse": {
            "type": "object",
            "properties": {
                "animation_delay": {"type": "string", "example": "240ms"},
                "delay_ms": {"type": "integer", "example": 240},
                "id": {"type": "string"}
            }
        },
        "reveal.PlanRequest": {
            "description": "Reveal plan payload",
            "type": "object",
            "properties": {
                "default_stagger_ms": {"type": "integer", "example": 80},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/reveal.PlanGroupRequest"}}
            }
        },
        "reveal.PlanResponse": {
            "type": "object",
            "properties": {
                "groups": {"type": "array", "items": {"$ref": "#/definitions/reveal.PlanGroupResponse"}}
            }
        },
        "tracking.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid_page_visit"},
                "message": {"type": "string", "example": "page path is required"}
            }
        },
        "tracking.PageVisitRequest": {
            "type": "object",
            "properties": {
                "page_path": {"type": "string", "example": "/about"},
                "page_title": {"type": "string", "example": "About"}
            }
        },
        "tracking.StartViewRequest": {
            "description": "View start payload",
            "type": "object",
            "properties": {
                "landing_page": {"type": "string", "example": "/"},
                "language": {"type": "string", "example": "en-US"},
                "page_path": {"type": "string", "example": "/"},
                "page_title": {"type": "string", "example": "Home"},
                "referrer": {"type": "string", "example": "https://www.google.com/"},
                "session_id": {"type": "string", "example": "session_1735689600000_k3j9x0a1b"}
            }
        },
        "tracking.StartViewResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "view_id": {"type": "string"}
            }
        },
        "tracking.StatusResponse": {
            "type": "object",
            "properties": {
                "requested_by": {"type": "string", "example": "ops"},
                "status": {"type": "string", "example": "queued"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the dashboard JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Visitor Analytics Service API",
	Description:      "Visitor session tracking, analytics dashboard and scroll reveal planning.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
