// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/storefront/main.go -o docs
package docs

import "github.com/swaggo/swag"

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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Registrar cliente",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Iniciar sesión",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}}},
        "/products/categories": {"get": {"tags": ["products"], "summary": "Catálogo agrupado por categoría",
            "responses": {"200": {"description": "OK"}}}},
        "/products": {"get": {"tags": ["products"], "summary": "Listar productos activos",
            "responses": {"200": {"description": "OK"}}}},
        "/products/{id}": {"get": {"tags": ["products"], "summary": "Obtener producto por ID",
            "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}}}},
        "/addresses": {
            "get": {"tags": ["addresses"], "security": [{"BearerAuth": []}], "summary": "Direcciones del usuario",
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["addresses"], "security": [{"BearerAuth": []}], "summary": "Crear dirección",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AddressRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}}},
        "/addresses/{id}": {
            "put": {"tags": ["addresses"], "security": [{"BearerAuth": []}], "summary": "Actualizar dirección",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AddressRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["addresses"], "security": [{"BearerAuth": []}], "summary": "Eliminar dirección",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/addresses/{id}/default": {"put": {"tags": ["addresses"], "security": [{"BearerAuth": []}], "summary": "Marcar dirección como predeterminada",
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/cart": {
            "get": {"tags": ["cart"], "security": [{"BearerAuth": []}], "summary": "Ver carrito", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["cart"], "security": [{"BearerAuth": []}], "summary": "Vaciar carrito", "responses": {"200": {"description": "OK"}}}},
        "/cart/items": {"post": {"tags": ["cart"], "security": [{"BearerAuth": []}], "summary": "Agregar producto al carrito",
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/cart/items/{productId}": {
            "put": {"tags": ["cart"], "security": [{"BearerAuth": []}], "summary": "Cambiar cantidad de un producto",
                "parameters": [{"in": "path", "name": "productId", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"tags": ["cart"], "security": [{"BearerAuth": []}], "summary": "Quitar producto del carrito",
                "parameters": [{"in": "path", "name": "productId", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}}}},
        "/orders": {
            "post": {"tags": ["orders"], "security": [{"BearerAuth": []}], "summary": "Crear pedido (checkout)",
                "parameters": [{"in": "header", "name": "Idempotency-Key", "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}, "500": {"description": "Internal Server Error"}}},
            "get": {"tags": ["orders"], "security": [{"BearerAuth": []}], "summary": "Pedidos del usuario",
                "parameters": [{"in": "query", "name": "limit", "type": "integer"}, {"in": "query", "name": "offset", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}": {"get": {"tags": ["orders"], "security": [{"BearerAuth": []}], "summary": "Obtener pedido con ítems",
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/orders/{id}/status": {"put": {"tags": ["orders"], "security": [{"BearerAuth": []}], "summary": "Cambiar estado del pedido",
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true},
                {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/payments/charge": {"post": {"tags": ["payments"], "security": [{"BearerAuth": []}], "summary": "Pagar con tarjeta y crear pedido",
            "parameters": [{"in": "header", "name": "Idempotency-Key", "type": "string"},
                {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ChargeRequest"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "tarjeta rechazada"}, "502": {"description": "pasarela no disponible"}, "500": {"description": "Internal Server Error"}}}},
        "/payments/webhook": {"post": {"tags": ["payments"], "summary": "Notificaciones de la pasarela",
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}}}
    },
    "definitions": {
        "ErrorBody": {"type": "object", "properties": {
            "error": {"type": "string"}, "code": {"type": "string"}, "details": {"type": "object"}}},
        "RegisterRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {
            "name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "AddressRequest": {"type": "object", "required": ["recipientName", "phone", "lineOne"], "properties": {
            "recipientName": {"type": "string"}, "phone": {"type": "string"}, "lineOne": {"type": "string"},
            "lineTwo": {"type": "string"}, "isDefault": {"type": "boolean"}}},
        "CreateOrderItem": {"type": "object", "properties": {
            "productId": {"type": "integer"}, "quantity": {"type": "integer"}}},
        "CreateOrderRequest": {"type": "object", "properties": {
            "items": {"type": "array", "items": {"$ref": "#/definitions/CreateOrderItem"}},
            "addressId": {"type": "string"}, "paymentMethod": {"type": "string", "enum": ["cash", "card", "transfer"]},
            "shippingCost": {"type": "string", "example": "5.00"}, "cardSourceToken": {"type": "string"},
            "customerEmail": {"type": "string"}, "customerName": {"type": "string"}, "notes": {"type": "string"}}},
        "ChargeRequest": {"type": "object", "properties": {
            "token": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/CreateOrderItem"}},
            "addressId": {"type": "string"}, "shippingCost": {"type": "string"},
            "customerEmail": {"type": "string"}, "customerName": {"type": "string"}, "notes": {"type": "string"}}},
        "UpdateStatusRequest": {"type": "object", "properties": {
            "status": {"type": "string", "enum": ["pending", "processing", "completed", "cancelled"]}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Choco Delisias API",
	Description:      "Catalogo, carrito, direcciones, pedidos y pagos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
