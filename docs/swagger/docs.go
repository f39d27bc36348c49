// Package swagger registers the service's OpenAPI document with swag.
// Regenerate with: swag init -g cmd/api/main.go -o docs/swagger
package swagger

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
        "/upload": {
            "post": {
                "description": "Store a base64-encoded image and record its metadata.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Upload image",
                "parameters": [
                    {
                        "description": "Image and owner",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/image.uploadRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Message"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        },
        "/list": {
            "get": {
                "description": "Return all image records, optionally filtered by owner and tag. Order is unspecified.",
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "List images",
                "parameters": [
                    {"type": "string", "description": "Owner filter", "name": "userId", "in": "query"},
                    {"type": "string", "description": "Tag filter", "name": "tag", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/image.Record"}}
                    }
                }
            }
        },
        "/view/{imageId}": {
            "get": {
                "description": "Return a URL to fetch the image, valid for one hour.",
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "View image",
                "parameters": [
                    {"type": "string", "description": "Image ID", "name": "imageId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/image.viewData"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Message"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        },
        "/delete/{imageId}": {
            "delete": {
                "description": "Remove the image object and its record.",
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Delete image",
                "parameters": [
                    {"type": "string", "description": "Image ID", "name": "imageId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Message"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Message"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Message"}}
                }
            }
        }
    },
    "definitions": {
        "image.Record": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "imageId": {"type": "string"},
                "s3Key": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "userId": {"type": "string"}
            }
        },
        "image.uploadRequest": {
            "type": "object",
            "required": ["image", "userId"],
            "properties": {
                "image": {"type": "string", "example": "SGVsbG8gV29ybGQ="},
                "tags": {"type": "array", "items": {"type": "string"}, "example": ["test", "demo"]},
                "userId": {"type": "string", "example": "u1"}
            }
        },
        "image.viewData": {
            "type": "object",
            "properties": {
                "url": {"type": "string"}
            }
        },
        "response.Message": {
            "type": "object",
            "properties": {
                "imageId": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Image Metadata API",
	Description:      "Stores images in an object store and their metadata in a key-value store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
