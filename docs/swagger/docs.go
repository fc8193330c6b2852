// Package swagger registers the OpenAPI document served under /swagger.
// Keep it in step with the handler annotations of feature/objects and feature/buckets.
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
        "/buckets": {
            "get": {
                "description": "Reports provider, visibility and existence of every registered bucket.",
                "produces": ["application/json"],
                "tags": ["buckets"],
                "summary": "Check buckets",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/buckets.Report"}
                        }
                    }
                }
            }
        },
        "/buckets/{bucket}/reconcile": {
            "get": {
                "description": "Classifies every key as ok, orphan (storage only) or dangling (ledger only). With purge, lists the actions a confirmed run would take.",
                "produces": ["application/json"],
                "tags": ["buckets"],
                "summary": "Reconcile bucket",
                "parameters": [
                    {"type": "string", "description": "Bucket name", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Key prefix", "name": "prefix", "in": "query"},
                    {"type": "boolean", "description": "Plan purge actions", "name": "purge", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.Plan"}},
                    "404": {"description": "Bucket not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Ledger disabled", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/buckets/{bucket}/reconcile/key": {
            "get": {
                "description": "Reports whether a key is ok, orphan (storage only) or dangling (ledger only). The status is empty when neither side has the key.",
                "produces": ["application/json"],
                "tags": ["buckets"],
                "summary": "Reconcile key",
                "parameters": [
                    {"type": "string", "description": "Bucket name", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Object key", "name": "key", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.Result"}},
                    "400": {"description": "Missing key", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Bucket not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Ledger disabled", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/objects/{bucket}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["objects"],
                "summary": "List recorded objects",
                "parameters": [
                    {"type": "string", "description": "Bucket name", "name": "bucket", "in": "path", "required": true},
                    {"type": "integer", "default": 100, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ledger.Object"}}},
                    "503": {"description": "Ledger disabled", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "description": "Upload one file (field \"file\") or a batch (field \"files\", on /batch). Images can be recompressed to WebP.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["objects"],
                "summary": "Upload files",
                "parameters": [
                    {"type": "string", "description": "Bucket name", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Destination folder, e.g. /avatars", "name": "folder", "in": "formData"},
                    {"type": "boolean", "description": "Override the bucket default visibility", "name": "private", "in": "formData"},
                    {"type": "boolean", "description": "Recompress images to WebP", "name": "optimize", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/objects.UploadResponse"}},
                    "400": {"description": "Invalid request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Bucket not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "413": {"description": "Payload too large", "schema": {"type": "string"}},
                    "415": {"description": "Invalid mime type", "schema": {"type": "string"}},
                    "502": {"description": "Storage provider error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "tags": ["objects"],
                "summary": "Delete object",
                "parameters": [
                    {"type": "string", "description": "Bucket name", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Object key", "name": "key", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Missing key", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Bucket not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Storage provider error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/objects/{bucket}/raw": {
            "put": {
                "description": "Upload the request body as-is. The content type is sniffed from the bytes.",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["objects"],
                "summary": "Upload raw bytes",
                "parameters": [
                    {"type": "string", "description": "Bucket name", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Destination folder, e.g. /avatars", "name": "folder", "in": "query"},
                    {"type": "boolean", "description": "Override the bucket default visibility", "name": "private", "in": "query"},
                    {"type": "boolean", "description": "Recompress images to WebP", "name": "optimize", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/objects.UploadResponse"}},
                    "400": {"description": "Invalid file type", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Bucket not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Storage provider error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/objects/{bucket}/url": {
            "get": {
                "description": "Get a signed GET URL for an object.",
                "produces": ["application/json"],
                "tags": ["objects"],
                "summary": "Presign object",
                "parameters": [
                    {"type": "string", "description": "Bucket name", "name": "bucket", "in": "path", "required": true},
                    {"type": "string", "description": "Object key", "name": "key", "in": "query", "required": true},
                    {"type": "integer", "description": "Lifetime in seconds", "name": "expires", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Signed URL", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Missing key", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Bucket not configured", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "buckets.Report": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "exists": {"type": "boolean"},
                "name": {"type": "string"},
                "private": {"type": "boolean"},
                "provider": {"type": "string"},
                "region": {"type": "string"}
            }
        },
        "ledger.Object": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "contentType": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "integer"},
                "key": {"type": "string"},
                "private": {"type": "boolean"},
                "size": {"type": "integer"}
            }
        },
        "objects.UploadResponse": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "keys": {"type": "array", "items": {"type": "string"}}
            }
        },
        "reconcile.Action": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "reason": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "reconcile.Plan": {
            "type": "object",
            "properties": {
                "actions": {"type": "array", "items": {"$ref": "#/definitions/reconcile.Action"}},
                "results": {"type": "array", "items": {"$ref": "#/definitions/reconcile.Result"}},
                "summary": {"$ref": "#/definitions/reconcile.PlanSummary"}
            }
        },
        "reconcile.PlanSummary": {
            "type": "object",
            "properties": {
                "dangling": {"type": "integer"},
                "ok": {"type": "integer"},
                "orphans": {"type": "integer"},
                "purge_actions": {"type": "integer"},
                "total_items": {"type": "integer"}
            }
        },
        "reconcile.Result": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "ledger_present": {"type": "boolean"},
                "status": {"type": "string"},
                "storage_present": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
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
	Title:            "Upload Agent API",
	Description:      "API for uploading, signing and deleting objects in S3-compatible buckets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
