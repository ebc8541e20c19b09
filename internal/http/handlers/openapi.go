package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
)

const openAPIPath = "/v1/openapi.json"

//go:embed openapi.json
var openAPIDocument []byte

// docsPage is rendered once from the embedded document's info block.
var docsPage = renderDocsPage(openAPIDocument)

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} {{.Version}}</title>
<style>body{margin:0}redoc{display:block;min-height:100vh}</style>
</head>
<body>
<noscript><p>{{.Description}} The raw document is at <a href="{{.SpecURL}}">{{.SpecURL}}</a>.</p></noscript>
<redoc spec-url="{{.SpecURL}}" expand-responses="200,422"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
</body>
</html>`))

func renderDocsPage(doc []byte) []byte {
	var parsed struct {
		Info struct {
			Title       string `json:"title"`
			Version     string `json:"version"`
			Description string `json:"description"`
		} `json:"info"`
	}
	if err := json.Unmarshal(doc, &parsed); err != nil {
		panic("handlers: embedded openapi.json is invalid: " + err.Error())
	}
	var buf bytes.Buffer
	err := docsTemplate.Execute(&buf, map[string]string{
		"Title":       parsed.Info.Title,
		"Version":     parsed.Info.Version,
		"Description": parsed.Info.Description,
		"SpecURL":     openAPIPath,
	})
	if err != nil {
		panic("handlers: render docs page: " + err.Error())
	}
	return buf.Bytes()
}

// OpenAPIJSON serves the embedded OpenAPI document for the public routes.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

// OpenAPIDocs serves a ReDoc page titled after the document.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(docsPage)
}
