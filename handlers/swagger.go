package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the portal core.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>careerbridge-core — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the document intake and review endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "careerbridge-core", "version": "v0.1.0" },
  "paths": {
    "/api/v1/upload": {
      "post": {
        "summary": "Upload a profile photo or resume",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"profilePhoto":{"type":"string","format":"binary"},"file":{"type":"string","format":"binary"}}}}}},
        "responses": { "201": { "description": "document stored, durable URL returned" }, "413": { "description": "file exceeds 5 MiB" }, "415": { "description": "media type not allowed for this field" }, "422": { "description": "unexpected field" } }
      }
    },
    "/api/v1/postings/{id}/apply": {
      "post": { "summary": "Submit an application to a posting", "responses": { "201": { "description": "pending application created" }, "404": { "description": "unknown posting" }, "409": { "description": "already applied" } } }
    },
    "/api/v1/applications/{id}/status": {
      "post": { "summary": "Accept or reject an application", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"status":{"type":"string","enum":["Accepted","Rejected"]}}}}}}, "responses": { "200": { "description": "updated application returned" }, "400": { "description": "unrecognized status token" }, "404": { "description": "unknown application" } } }
    },
    "/api/v1/postings/{id}/applicants": {
      "get": { "summary": "Reviewer roster with derived counts", "responses": { "200": { "description": "roster keyed by posting kind" }, "404": { "description": "unknown posting" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
