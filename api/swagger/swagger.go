package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Housing API",
        "description": "Classifieds API for student accommodation",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Authentication", "description": "Accounts and sessions"},
        {"name": "Listings", "description": "Public listing search and submission"},
        {"name": "Moderation", "description": "Admin listing board"},
        {"name": "Users", "description": "Admin account management"},
        {"name": "Messages", "description": "Support inbox"},
        {"name": "Statistics", "description": "Admin dashboard numbers"},
        {"name": "Notifications", "description": "Bulk listing broadcast"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Close the session",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "No session"}
                }
            }
        },
        "/auth/profile": {
            "put": {
                "tags": ["Authentication"],
                "summary": "Update own profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listings": {
            "get": {
                "tags": ["Listings"],
                "summary": "Search public listings",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "mode", "in": "query", "type": "string"},
                    {"name": "maxPrice", "in": "query", "type": "integer"},
                    {"name": "caution", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Listings"],
                "summary": "Submit a listing",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateListingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "No session"}
                }
            }
        },
        "/listings/user": {
            "get": {
                "tags": ["Listings"],
                "summary": "Own listings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listings/{id}": {
            "get": {
                "tags": ["Listings"],
                "summary": "Fetch one listing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Listings"],
                "summary": "Delete a listing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "403": {"description": "Not the owner"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/messages": {
            "post": {
                "tags": ["Messages"],
                "summary": "File a support message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitMessageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/listings": {
            "get": {
                "tags": ["Moderation"],
                "summary": "All listings for moderation",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admin only"}
                }
            }
        },
        "/admin/listings/export": {
            "get": {
                "tags": ["Moderation"],
                "summary": "Export the listing board",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv | pdf"}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/admin/listings/{id}/validate": {
            "post": {
                "tags": ["Moderation"],
                "summary": "Moderate a listing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Users"],
                "summary": "All non-admin accounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users/{id}/block": {
            "post": {
                "tags": ["Users"],
                "summary": "Block or unblock an account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BlockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Target is an admin"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/admin/messages": {
            "get": {
                "tags": ["Messages"],
                "summary": "Support inbox",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/messages/{id}": {
            "put": {
                "tags": ["Messages"],
                "summary": "Advance a support message",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MessageActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition"}
                }
            },
            "delete": {
                "tags": ["Messages"],
                "summary": "Delete a support message",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Platform statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/notify-users": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Email every account about new listings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/NotifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "All batches sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "One or more batches failed"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "description": "student | landlord"},
                "password": {"type": "string"}
            },
            "required": ["firstName", "lastName", "email", "phone", "role", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "phone": {"type": "string"},
                "bio": {"type": "string"}
            },
            "required": ["firstName", "lastName", "phone"]
        },
        "CreateListingRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string", "description": "room | apartment | house"},
                "mode": {"type": "string", "description": "colocation | classic"},
                "price": {"type": "integer"},
                "priceType": {"type": "string", "description": "total | per_person"},
                "location": {"type": "string"},
                "availableSpots": {"type": "integer"},
                "contact": {"type": "string"},
                "cautionAmount": {"type": "integer"}
            },
            "required": ["title", "description", "type", "mode", "price", "location", "contact"]
        },
        "SubmitMessageRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "subject": {"type": "string"},
                "message": {"type": "string"},
                "type": {"type": "string", "description": "bug | suggestion | question"},
                "priority": {"type": "string", "description": "low | medium | high | urgent"}
            },
            "required": ["name", "email", "subject", "message", "type"]
        },
        "ValidationRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "description": "approve | reject"}
            },
            "required": ["action"]
        },
        "BlockRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "description": "block | unblock"}
            },
            "required": ["action"]
        },
        "MessageActionRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "description": "take | resolve"}
            },
            "required": ["action"]
        },
        "NotifyRequest": {
            "type": "object",
            "properties": {
                "listingId": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
