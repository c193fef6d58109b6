// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package api

import "net/http"

// openAPIDocument is a hand-maintained OpenAPI 2.0 description of the
// demonstration endpoints' swag annotations (see handlers.go). It is
// not swag-generated output; this repository does not run swag init
// at build time, so the handler-level @Summary/@Router comments serve
// as documentation source for maintainers while this is what backs
// the Swagger UI shell at /swagger/*.
const openAPIDocument = `{
  "swagger": "2.0",
  "info": {
    "title": "printd authorization core",
    "description": "Demonstration HTTP surface exercising the is_authorized engine end to end.",
    "version": "1.0"
  },
  "basePath": "/",
  "schemes": ["http", "https"],
  "paths": {
    "/health": {
      "get": {
        "tags": ["Core"],
        "summary": "Report daemon liveness",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/printers": {
      "get": {
        "tags": ["Printers"],
        "summary": "List printers",
        "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
      }
    },
    "/jobs": {
      "post": {
        "tags": ["Jobs"],
        "summary": "Submit a print job",
        "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
      }
    },
    "/jobs/{id}": {
      "get": {
        "tags": ["Jobs"],
        "summary": "Get job status",
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
      }
    },
    "/jobs/{id}/cancel": {
      "post": {
        "tags": ["Jobs"],
        "summary": "Cancel a print job",
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
      }
    },
    "/admin/info": {
      "get": {
        "tags": ["Admin"],
        "summary": "Report admin-only server info",
        "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
      }
    },
    "/admin/performance": {
      "get": {
        "tags": ["Admin"],
        "summary": "Report endpoint latency statistics",
        "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
      }
    }
  }
}`

// ServeOpenAPIDocument serves the hand-maintained OpenAPI document
// backing /swagger/*.
func ServeOpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(openAPIDocument))
}
