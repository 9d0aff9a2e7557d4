//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"

	httpSwagger "github.com/swaggo/http-swagger"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/status": {"get": {"summary": "Model status, cache info and token state", "responses": {"200": {"description": "OK"}}}},
        "/model/init": {"post": {"summary": "Start background model initialization", "responses": {"202": {"description": "Accepted"}, "409": {"description": "Already initializing"}}}},
        "/model/progress": {"get": {"summary": "Latest initialization progress", "responses": {"200": {"description": "OK"}}}},
        "/model": {"delete": {"summary": "Unload the model", "responses": {"200": {"description": "OK"}}}},
        "/cache": {
            "get": {"summary": "Model cache info", "responses": {"200": {"description": "OK"}}},
            "delete": {"summary": "Delete cached model artifacts", "responses": {"204": {"description": "No Content"}}}
        },
        "/token": {
            "put": {"summary": "Store the registry access token", "responses": {"204": {"description": "No Content"}, "400": {"description": "Invalid token"}}},
            "delete": {"summary": "Remove the stored token", "responses": {"204": {"description": "No Content"}}}
        },
        "/rubrics": {"get": {"summary": "List rubrics", "responses": {"200": {"description": "OK"}}}},
        "/rubrics/{exam}": {"get": {"summary": "Rubric for one exam type", "parameters": [{"name": "exam", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not registered"}}}},
        "/evaluate": {"post": {"summary": "Grade an essay", "responses": {"200": {"description": "Graded essay"}, "404": {"description": "No rubric"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "neuronexus API",
	Description:      "Essay evaluation and model lifecycle API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
