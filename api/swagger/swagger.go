package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HatchPoint Intake API",
        "description": "Lead-intake backend: application submissions, resume storage and the admin panel",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Applications", "description": "Intake submissions and removal"},
        {"name": "Admin", "description": "Admin login and listing"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check (database and object store)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/api/applications": {
            "post": {
                "tags": ["Applications"],
                "summary": "Submit a job application",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "fullName", "in": "formData", "type": "string"},
                    {"name": "contactNumber", "in": "formData", "type": "string"},
                    {"name": "email", "in": "formData", "type": "string"},
                    {"name": "location", "in": "formData", "type": "string"},
                    {"name": "experience", "in": "formData", "type": "string", "enum": ["fresher", "experienced"]},
                    {"name": "domainPreference", "in": "formData", "type": "string", "enum": ["core", "it", "non-it", "other"]},
                    {"name": "otherDomain", "in": "formData", "type": "string"},
                    {"name": "referralCode", "in": "formData", "type": "string"},
                    {"name": "suggestions", "in": "formData", "type": "string"},
                    {"name": "resume", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmitResponse"}},
                    "400": {"description": "Validation or store error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Applications"],
                "summary": "Delete an application and its stored resume",
                "parameters": [
                    {"name": "id", "in": "query", "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/DeleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "400": {"description": "Missing id or store error", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/applications/export": {
            "get": {
                "tags": ["Applications"],
                "summary": "Export all applications as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Attachment"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Validate the admin password and mint a session cookie",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "DeleteRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "Application": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "full_name": {"type": "string"},
                "contact_number": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"},
                "experience": {"type": "string"},
                "domain_preference": {"type": "string"},
                "other_domain": {"type": "string", "x-nullable": true},
                "referral_code": {"type": "string", "x-nullable": true},
                "suggestions": {"type": "string", "x-nullable": true},
                "resume_path": {"type": "string", "x-nullable": true}
            }
        },
        "SubmitResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "application": {"$ref": "#/definitions/Application"}
            }
        },
        "SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
