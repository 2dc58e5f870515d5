// Package docs registers the OpenAPI description served at /swagger.
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
        "/v1/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [{"description": "Member details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Current member",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Change display name",
                "parameters": [{"description": "New display name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.renameRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            }
        },
        "/v1/me/wallet": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Attach a wallet",
                "parameters": [{"description": "Wallet address", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.walletRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.walletResponse"}}}
            }
        },
        "/v1/me/standing": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Ambassador dashboard summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.standingResponse"}}}
            }
        },
        "/v1/posts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Feed",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.feedItemResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Publish a post",
                "parameters": [{"description": "Post", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createPostRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.postResponse"}}}
            }
        },
        "/v1/posts/{id}/vote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Vote for a post",
                "parameters": [{"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.voteResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Withdraw a vote",
                "parameters": [{"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.voteResponse"}}}
            }
        },
        "/v1/posts/{id}/comments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Comments on a post",
                "parameters": [{"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.commentResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Comment on a post",
                "parameters": [
                    {"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true},
                    {"description": "Comment", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.commentRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.commentResponse"}}}
            }
        },
        "/v1/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "Leaderboard",
                "parameters": [
                    {"type": "string", "description": "all-time (default), last-7-days or last-30-days", "name": "period", "in": "query"},
                    {"type": "integer", "description": "Rows to return, 1-100 (default 9)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.leaderboardResponse"}}}
            }
        },
        "/v1/ambassadors/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "Ambassador profile",
                "parameters": [{"type": "string", "description": "Ambassador id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ambassadorResponse"}}}
            }
        },
        "/v1/admin/scores/verify": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Replay scores and report drift",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.verifyResponse"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.signupRequest": {"type": "object", "required": ["displayName", "email", "pin"], "properties": {"displayName": {"type": "string"}, "email": {"type": "string"}, "pin": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "required": ["email", "pin"], "properties": {"email": {"type": "string"}, "pin": {"type": "string"}}},
        "handler.renameRequest": {"type": "object", "required": ["displayName"], "properties": {"displayName": {"type": "string"}}},
        "handler.walletRequest": {"type": "object", "required": ["wallet"], "properties": {"wallet": {"type": "string"}}},
        "handler.createPostRequest": {"type": "object", "required": ["title", "description"], "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "image": {"type": "string"}}},
        "handler.commentRequest": {"type": "object", "required": ["content"], "properties": {"content": {"type": "string"}}},
        "handler.userResponse": {"type": "object", "properties": {"id": {"type": "string"}, "displayName": {"type": "string"}, "email": {"type": "string"}, "walletAddress": {"type": "string"}, "role": {"type": "string"}, "createdAt": {"type": "string"}}},
        "handler.authResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.userResponse"}}},
        "handler.ambassadorResponse": {"type": "object", "properties": {"id": {"type": "string"}, "displayName": {"type": "string"}, "wallet": {"type": "string"}, "score": {"type": "integer"}, "createdAt": {"type": "string"}}},
        "handler.walletResponse": {"type": "object", "properties": {"token": {"type": "string"}, "ambassador": {"$ref": "#/definitions/handler.ambassadorResponse"}}},
        "handler.postResponse": {"type": "object", "properties": {"id": {"type": "string"}, "authorId": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "image": {"type": "string"}, "attributed": {"type": "boolean"}, "createdAt": {"type": "string"}}},
        "handler.feedItemResponse": {"type": "object", "properties": {"id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "descriptionHtml": {"type": "string"}, "image": {"type": "string"}, "createdAt": {"type": "string"}, "authorId": {"type": "string"}, "authorName": {"type": "string"}, "authorWallet": {"type": "string"}, "voteCount": {"type": "integer"}, "hasVoted": {"type": "boolean"}, "commentCount": {"type": "integer"}}},
        "handler.voteResponse": {"type": "object", "properties": {"status": {"type": "string"}, "postId": {"type": "string"}, "voteCount": {"type": "integer"}, "authorScore": {"type": "integer"}}},
        "handler.commentResponse": {"type": "object", "properties": {"id": {"type": "string"}, "postId": {"type": "string"}, "authorId": {"type": "string"}, "content": {"type": "string"}, "createdAt": {"type": "string"}}},
        "handler.leaderboardEntryResponse": {"type": "object", "properties": {"rank": {"type": "integer"}, "ambassador": {"$ref": "#/definitions/handler.ambassadorResponse"}, "score": {"type": "integer"}, "lastActivity": {"type": "string"}}},
        "handler.leaderboardResponse": {"type": "object", "properties": {"period": {"type": "string"}, "entries": {"type": "array", "items": {"$ref": "#/definitions/handler.leaderboardEntryResponse"}}}},
        "handler.standingResponse": {"type": "object", "properties": {"ambassadorId": {"type": "string"}, "rank": {"type": "integer"}, "total": {"type": "integer"}, "score": {"type": "integer"}, "postsAuthored": {"type": "integer"}, "votesReceived": {"type": "integer"}, "commentsPosted": {"type": "integer"}}},
        "handler.verifyResponse": {"type": "object", "properties": {"consistent": {"type": "boolean"}, "drifts": {"type": "array", "items": {"type": "object", "properties": {"ambassadorId": {"type": "string"}, "stored": {"type": "integer"}, "replayed": {"type": "integer"}}}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ambassador Engagement Ledger API",
	Description:      "Posts, votes, comments and the ambassador leaderboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
