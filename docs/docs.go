// Package docs holds the swagger document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/auth/login": {
            "post": {
                "description": "Authenticates a user with email and password and returns an access token",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "User login",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Login credentials",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "401": {
                        "description": "Invalid credentials"
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Returns the authenticated account and the student or supervisor profile linked to it",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Current account",
                "responses": {
                    "200": {
                        "description": "Account retrieved"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Account not found"
                    }
                }
            }
        },
        "/auth/password": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Replaces the authenticated account's password after checking the current one",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Change password",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Current and new passwords",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Password changed"
                    },
                    "400": {
                        "description": "Missing field or weak new password"
                    },
                    "401": {
                        "description": "Wrong current password"
                    }
                }
            }
        },
        "/auth/register": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creates an account (requires ADMIN). STUDENT and SUPERVISOR accounts must reference an existing profile.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Register a new account",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Account information",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Account created"
                    },
                    "400": {
                        "description": "Invalid request format or missing profile"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Linked profile not found"
                    },
                    "409": {
                        "description": "Email already exists or profile already linked"
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/documents/student/{studentId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "documents"
                ],
                "summary": "List documents of a student",
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Documents retrieved"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Student not found"
                    }
                }
            }
        },
        "/documents/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "documents"
                ],
                "summary": "Delete a document",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Document ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Document deleted"
                    },
                    "403": {
                        "description": "Only the uploader or an administrator can delete"
                    },
                    "404": {
                        "description": "Document not found"
                    }
                }
            }
        },
        "/documents/{id}/download": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/octet-stream"
                ],
                "tags": [
                    "documents"
                ],
                "summary": "Download a document",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Document ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Document content"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Document not found"
                    }
                }
            }
        },
        "/documents/{studentId}": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Uploads a pdf, doc, docx, txt, jpg or png file for a student. The stage defaults to the student's current stage.",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "documents"
                ],
                "summary": "Upload a document",
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    },
                    {
                        "name": "file",
                        "in": "formData",
                        "required": true,
                        "description": "Document",
                        "type": "file"
                    },
                    {
                        "name": "stage",
                        "in": "formData",
                        "required": false,
                        "description": "Workflow stage code",
                        "type": "string"
                    },
                    {
                        "name": "name",
                        "in": "formData",
                        "required": false,
                        "description": "Display name",
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Document uploaded"
                    },
                    "400": {
                        "description": "Missing, empty, too large or unsupported file"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Student or stage not found"
                    }
                }
            }
        },
        "/events/ws": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Upgrades to a WebSocket that pushes assignment events. Administrators receive every event, supervisors and students the ones touching their own profile. Browsers pass the token as ?token=.",
                "tags": [
                    "events"
                ],
                "summary": "Follow assignment changes",
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "required": false,
                        "description": "Bearer token, for clients that cannot set headers",
                        "type": "string"
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols to WebSocket"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Account not linked to a profile"
                    },
                    "503": {
                        "description": "Event stream stopped"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Service is up"
                    }
                }
            }
        },
        "/matching/assign": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Assigns a supervisor to a student, moving the student off its previous supervisor if any",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matching"
                ],
                "summary": "Assign a supervisor",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Student and supervisor",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Supervisor assigned"
                    },
                    "400": {
                        "description": "Missing ids"
                    },
                    "404": {
                        "description": "Student or supervisor not found"
                    },
                    "409": {
                        "description": "Supervisor unavailable or quota reached"
                    }
                }
            }
        },
        "/matching/assign/{studentId}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Removes the supervisor of a student and frees one slot of its quota",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matching"
                ],
                "summary": "Unassign a supervisor",
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Supervisor unassigned"
                    },
                    "404": {
                        "description": "Student not found"
                    },
                    "409": {
                        "description": "Student has no supervisor"
                    }
                }
            }
        },
        "/matching/reconcile": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Recomputes each supervisor's current load from the students referencing it and reports the corrections",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matching"
                ],
                "summary": "Reconcile supervisor loads",
                "responses": {
                    "200": {
                        "description": "Loads reconciled"
                    },
                    "500": {
                        "description": "Internal server error"
                    }
                }
            }
        },
        "/matching/{studentId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Ranks available supervisors with free capacity by topical fit (70%) and capacity (30%)",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matching"
                ],
                "summary": "Suggest supervisors",
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Maximum number of suggestions",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Suggestions computed"
                    },
                    "400": {
                        "description": "Invalid limit"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Student not found"
                    }
                }
            }
        },
        "/stats": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stats"
                ],
                "summary": "Global statistics",
                "responses": {
                    "200": {
                        "description": "Statistics computed"
                    }
                }
            }
        },
        "/stats/domains": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stats"
                ],
                "summary": "Domain statistics",
                "responses": {
                    "200": {
                        "description": "Statistics computed"
                    }
                }
            }
        },
        "/stats/supervisors": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stats"
                ],
                "summary": "Supervisor load statistics",
                "responses": {
                    "200": {
                        "description": "Statistics computed"
                    }
                }
            }
        },
        "/students": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Administrators see every student, supervisors their own students and students themselves. Paginated when page or size is given.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "List students",
                "parameters": [
                    {
                        "name": "stage",
                        "in": "query",
                        "required": false,
                        "description": "Workflow stage code",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Stage status",
                        "type": "string"
                    },
                    {
                        "name": "supervisorId",
                        "in": "query",
                        "required": false,
                        "description": "Assigned supervisor ID",
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Matches name, email, program or thesis title",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number (1-based)",
                        "type": "integer"
                    },
                    {
                        "name": "size",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Students retrieved"
                    },
                    "400": {
                        "description": "Invalid filter"
                    },
                    "403": {
                        "description": "Account not linked to a profile"
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creates a student at the first workflow stage, without a supervisor",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Create student",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Student information",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Student created"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "409": {
                        "description": "Email already exists"
                    }
                }
            }
        },
        "/students/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Get student by ID",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Student retrieved"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Student not found"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Updates a student. Students may only edit the project fields of their own profile. The supervisor is changed through /matching/assign.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Update student",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Fields to update",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Student updated"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Student not found"
                    },
                    "409": {
                        "description": "Email already exists"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "students"
                ],
                "summary": "Delete student",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Student deleted"
                    },
                    "404": {
                        "description": "Student not found"
                    }
                }
            }
        },
        "/supervisors": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Lists supervisors with their fill rate, optionally filtered by availability or domain. Paginated when page or size is given.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "supervisors"
                ],
                "summary": "List supervisors",
                "parameters": [
                    {
                        "name": "available",
                        "in": "query",
                        "required": false,
                        "description": "Only available (true) or unavailable (false) supervisors",
                        "type": "boolean"
                    },
                    {
                        "name": "domain",
                        "in": "query",
                        "required": false,
                        "description": "Domain tag, case-insensitive",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number (1-based)",
                        "type": "integer"
                    },
                    {
                        "name": "size",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Supervisors retrieved"
                    },
                    "400": {
                        "description": "Invalid filter"
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creates a supervisor. The quota defaults to 10 and the load always starts at 0.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "supervisors"
                ],
                "summary": "Create supervisor",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Supervisor information",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Supervisor created"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "409": {
                        "description": "Email already exists"
                    }
                }
            }
        },
        "/supervisors/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "supervisors"
                ],
                "summary": "Get supervisor by ID",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Supervisor ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Supervisor retrieved"
                    },
                    "404": {
                        "description": "Supervisor not found"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Updates a supervisor. Supervisors may edit their own profile but only an administrator can change the quota, which can never drop below the current load.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "supervisors"
                ],
                "summary": "Update supervisor",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Supervisor ID",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Fields to update",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Supervisor updated"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Supervisor not found"
                    },
                    "409": {
                        "description": "Quota below current load or email already exists"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "supervisors"
                ],
                "summary": "Delete supervisor",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Supervisor ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Supervisor deleted"
                    },
                    "404": {
                        "description": "Supervisor not found"
                    },
                    "409": {
                        "description": "Supervisor still has assigned students"
                    }
                }
            }
        },
        "/theses": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Always paginated, 20 per page unless size is given",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "theses"
                ],
                "summary": "List archived theses",
                "parameters": [
                    {
                        "name": "year",
                        "in": "query",
                        "type": "integer",
                        "description": "Defense year"
                    },
                    {
                        "name": "supervisor",
                        "in": "query",
                        "type": "string",
                        "description": "Part of the supervisor's name"
                    },
                    {
                        "name": "domain",
                        "in": "query",
                        "type": "string",
                        "description": "Part of a domain tag"
                    },
                    {
                        "name": "q",
                        "in": "query",
                        "type": "string",
                        "description": "Matches title, summary or author"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page number (1-based)"
                    },
                    {
                        "name": "size",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size, at most 100"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Theses retrieved"
                    },
                    "400": {
                        "description": "Invalid filter"
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "theses"
                ],
                "summary": "Archive thesis",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Thesis information",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Thesis archived"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "403": {
                        "description": "Forbidden"
                    }
                }
            }
        },
        "/theses/import": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Archives every complete row. Incomplete rows are skipped and reported with their index.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "theses"
                ],
                "summary": "Import archived theses",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Rows to archive",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Import finished"
                    },
                    "400": {
                        "description": "Empty batch"
                    },
                    "403": {
                        "description": "Forbidden"
                    }
                }
            }
        },
        "/theses/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "theses"
                ],
                "summary": "Get archived thesis",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Thesis ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Thesis retrieved"
                    },
                    "404": {
                        "description": "Thesis not found"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "theses"
                ],
                "summary": "Update archived thesis",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Thesis ID",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Fields to update",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Thesis updated"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Thesis not found"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "theses"
                ],
                "summary": "Delete archived thesis",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Thesis ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Thesis deleted"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Thesis not found"
                    }
                }
            }
        },
        "/workflow/stages": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "workflow"
                ],
                "summary": "List workflow stages",
                "parameters": [
                    {
                        "name": "active",
                        "in": "query",
                        "required": false,
                        "description": "Only active stages",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Stages retrieved"
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "The code is upper-cased with spaces turned into underscores and must be unique",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "workflow"
                ],
                "summary": "Create workflow stage",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Stage information",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Stage created"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "409": {
                        "description": "Stage code already exists"
                    }
                }
            }
        },
        "/workflow/stages/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "workflow"
                ],
                "summary": "Get workflow stage",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Stage ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Stage retrieved"
                    },
                    "404": {
                        "description": "Stage not found"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "workflow"
                ],
                "summary": "Update workflow stage",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Stage ID",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Fields to update",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Stage updated"
                    },
                    "400": {
                        "description": "Invalid request format"
                    },
                    "404": {
                        "description": "Stage not found"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "workflow"
                ],
                "summary": "Delete workflow stage",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Stage ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Stage deleted"
                    },
                    "404": {
                        "description": "Stage not found"
                    },
                    "409": {
                        "description": "Students are at this stage"
                    }
                }
            }
        },
        "/workflow/students/{studentId}/stage": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Sets a student's stage and status. Allowed for administrators and the student's supervisor.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "workflow"
                ],
                "summary": "Advance a student",
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "path",
                        "required": true,
                        "description": "Student ID",
                        "type": "string"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Target stage and status",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Student advanced"
                    },
                    "400": {
                        "description": "Invalid status or inactive stage"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "404": {
                        "description": "Student or stage not found"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ThesisMatch API",
	Description:      "Thesis supervision service: supervisor matching, assignments, workflow and documents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
