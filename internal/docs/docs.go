// Package docs registra la especificación OpenAPI del BFF. Está escrita a mano
// en el formato que genera swag init; al agregar o quitar rutas hay que
// actualizar docTemplate (router.TestDocs_CoverEveryRoute falla si difieren).
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
        "/health": {"get": {"tags": ["system"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
        "/": {"get": {"tags": ["home"], "summary": "Mascotas destacadas y refugios", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/pets": {"get": {"tags": ["pets"], "summary": "Listar mascotas", "produces": ["application/json"],
            "parameters": [
                {"type": "string", "name": "species", "in": "query"},
                {"type": "string", "name": "city", "in": "query"},
                {"type": "string", "name": "state", "in": "query"},
                {"type": "string", "name": "shelterId", "in": "query"},
                {"type": "string", "name": "ageRange", "in": "query"},
                {"type": "string", "name": "gender", "in": "query"},
                {"type": "integer", "name": "page", "in": "query"},
                {"type": "integer", "name": "limit", "in": "query"}
            ],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}}},
        "/pets/{petID}": {"get": {"tags": ["pets"], "summary": "Detalle de mascota", "produces": ["application/json"],
            "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/shelters": {"get": {"tags": ["shelters"], "summary": "Listar refugios", "produces": ["application/json"],
            "parameters": [
                {"type": "string", "name": "city", "in": "query"},
                {"type": "string", "name": "state", "in": "query"},
                {"type": "integer", "name": "page", "in": "query"},
                {"type": "integer", "name": "limit", "in": "query"}
            ],
            "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/shelters/{shelterID}": {"get": {"tags": ["shelters"], "summary": "Detalle de refugio", "produces": ["application/json"],
            "parameters": [{"type": "string", "name": "shelterID", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "Iniciar sesión", "consumes": ["application/json"], "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/logout": {"post": {"tags": ["auth"], "summary": "Cerrar sesión", "responses": {"200": {"description": "OK"}}}},
        "/register/user": {"post": {"tags": ["auth"], "summary": "Registro de adoptante", "consumes": ["application/json"],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/register/shelter": {"post": {"tags": ["auth"], "summary": "Registro de refugio (multipart con licencia)", "consumes": ["multipart/form-data"],
            "parameters": [{"type": "file", "name": "license", "in": "formData", "required": true}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/me": {"get": {"tags": ["auth"], "summary": "Usuario actual y estado del guard", "responses": {"200": {"description": "OK"}}}},
        "/me/profile": {"put": {"tags": ["auth"], "summary": "Actualizar perfil", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/me/applications": {"get": {"tags": ["applications"], "summary": "Mis solicitudes", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/apply/{petID}": {
            "get": {"tags": ["applications"], "summary": "Formulario de adopción",
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "503": {"description": "Session check pending"}}},
            "put": {"tags": ["applications"], "summary": "Guardar campos del formulario",
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/apply/{petID}/continue": {"post": {"tags": ["applications"], "summary": "Avanzar de sección",
            "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/apply/{petID}/back": {"post": {"tags": ["applications"], "summary": "Volver una sección",
            "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}}}},
        "/apply/{petID}/submit": {"post": {"tags": ["applications"], "summary": "Enviar solicitud de adopción",
            "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
            "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}, "502": {"description": "Bad Gateway"}}}},
        "/shelter/applications": {"get": {"tags": ["applications"], "summary": "Solicitudes recibidas por el refugio",
            "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/shelter/applications/{applicationID}/approve": {"post": {"tags": ["applications"], "summary": "Aprobar solicitud",
            "parameters": [{"type": "string", "name": "applicationID", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/shelter/applications/{applicationID}/reject": {"post": {"tags": ["applications"], "summary": "Rechazar solicitud",
            "parameters": [{"type": "string", "name": "applicationID", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Adoption Web",
	Description:      "BFF del marketplace de adopción: catálogo, formulario de solicitud y revisión por refugios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
