// Package docs holds the OpenAPI description served at /api/v1/swagger.
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
        "/users/register": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register the portfolio owner",
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "name": "bio", "in": "formData"},
                    {"type": "string", "name": "linkedin", "in": "formData"},
                    {"type": "string", "name": "github", "in": "formData"},
                    {"type": "string", "name": "twitter", "in": "formData"},
                    {"type": "string", "name": "portfolio", "in": "formData"},
                    {"type": "string", "name": "phone", "in": "formData"},
                    {"type": "string", "name": "address", "in": "formData"},
                    {"type": "file", "name": "avatar", "in": "formData", "required": true},
                    {"type": "file", "name": "resume", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/server.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Log in",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.SessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/logout": {
            "post": {
                "security": [{"CookieAuth": []}],
                "tags": ["users"],
                "summary": "Clear the session cookie",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/profile": {
            "get": {
                "security": [{"CookieAuth": []}],
                "tags": ["users"],
                "summary": "Current profile",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/update-profile": {
            "post": {
                "security": [{"CookieAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["users"],
                "summary": "Update profile fields and replace avatar or resume",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/change-password": {
            "put": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "tags": ["users"],
                "summary": "Change password",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.ChangePasswordRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/forgot-password": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["users"],
                "summary": "Email a password reset link",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.ForgotPasswordRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/users/reset-password/{token}": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["users"],
                "summary": "Reset password with an emailed token",
                "parameters": [
                    {"type": "string", "name": "token", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.ResetPasswordRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/skill/add-skill": {"post": {"security": [{"CookieAuth": []}], "consumes": ["multipart/form-data"], "tags": ["skills"], "summary": "Add a skill", "responses": {"201": {"description": "Created"}}}},
        "/skill/all-skills": {"get": {"tags": ["skills"], "summary": "List skills", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/skill/get-skill-by-id/{id}": {"get": {"tags": ["skills"], "summary": "Get a skill", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/skill/update-skill/{id}": {"put": {"security": [{"CookieAuth": []}], "tags": ["skills"], "summary": "Update a skill", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/skill/delete-skill/{id}": {"delete": {"security": [{"CookieAuth": []}], "tags": ["skills"], "summary": "Delete a skill", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/project/add-project": {"post": {"security": [{"CookieAuth": []}], "consumes": ["multipart/form-data"], "tags": ["projects"], "summary": "Add a project", "responses": {"201": {"description": "Created"}}}},
        "/project/get-projects": {"get": {"security": [{"CookieAuth": []}], "tags": ["projects"], "summary": "List projects", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/project/get-project/{id}": {"get": {"security": [{"CookieAuth": []}], "tags": ["projects"], "summary": "Get a project", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/project/update-project/{id}": {"put": {"security": [{"CookieAuth": []}], "tags": ["projects"], "summary": "Update a project", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/project/delete-project/{id}": {"delete": {"security": [{"CookieAuth": []}], "tags": ["projects"], "summary": "Delete a project", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/message/send-message": {"post": {"consumes": ["application/json"], "tags": ["messages"], "summary": "Send a contact message", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.SendMessageInput"}}], "responses": {"201": {"description": "Created"}}}},
        "/message/all-messages": {"get": {"security": [{"CookieAuth": []}], "tags": ["messages"], "summary": "List messages, newest first", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/message/get-message/{id}": {"get": {"security": [{"CookieAuth": []}], "tags": ["messages"], "summary": "Get a message", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/message/mark-read/{id}": {"put": {"security": [{"CookieAuth": []}], "tags": ["messages"], "summary": "Mark a message read", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/message/delete-message/{id}": {"delete": {"security": [{"CookieAuth": []}], "tags": ["messages"], "summary": "Delete a message", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/message/delete-all-messages": {"delete": {"security": [{"CookieAuth": []}], "tags": ["messages"], "summary": "Delete every message", "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "models.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "server.SessionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.UserSummary"},
                "expiresIn": {"type": "string"},
                "cookieExpiresIn": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "server.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "server.ChangePasswordRequest": {
            "type": "object",
            "properties": {"oldPassword": {"type": "string"}, "newPassword": {"type": "string"}}
        },
        "server.ForgotPasswordRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}}
        },
        "server.ResetPasswordRequest": {
            "type": "object",
            "properties": {"newPassword": {"type": "string"}}
        },
        "service.SendMessageInput": {
            "type": "object",
            "properties": {"sender": {"type": "string"}, "senderEmail": {"type": "string"}, "message": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "token", "in": "cookie"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:4000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Portfolio API",
	Description:      "Backend of a personal portfolio: owner account, skills, projects and contact messages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
