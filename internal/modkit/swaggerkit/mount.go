// Package swaggerkit serves Swagger UI over the embedded OpenAPI document
package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"

	phttp "dialdesk/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openapiDoc []byte

var (
	docOnce sync.Once
	docJSON []byte
	docErr  error
)

// Mount the Swagger UI and OpenAPI document if enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON)
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("dialdesk"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

func serveDocJSON(w http.ResponseWriter, _ *http.Request) {
	docOnce.Do(func() { docJSON, docErr = Document(openapiDoc) })
	if docErr != nil {
		http.Error(w, "openapi parse error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(docJSON)
}

// Document parses raw and fills in servers, the error envelope schema and default error responses
func Document(raw []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{map[string]any{"url": "/api/v1"}}
	}
	ensureErrorSchema(doc)
	addDefaultResponses(doc)
	return json.Marshal(doc)
}

// ensureErrorSchema adds the runtime error envelope under components.schemas.ErrorResponse
func ensureErrorSchema(doc map[string]any) {
	comps, ok := doc["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		doc["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultResponses injects 400 and 500 responses into every operation missing them
func addDefaultResponses(doc map[string]any) {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return
	}
	ref := map[string]any{
		"application/json": map[string]any{
			"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
		},
	}
	defaults := map[string]any{
		"400": map[string]any{"description": "Bad Request", "content": ref},
		"500": map[string]any{"description": "Internal Server Error", "content": ref},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			for code, resp := range defaults {
				if _, exists := responses[code]; !exists {
					responses[code] = resp
				}
			}
		}
	}
}
