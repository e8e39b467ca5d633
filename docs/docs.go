// Package docs registers the API description served under /swagger.
//
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/registro": {"post": {"tags": ["auth"], "summary": "Register an account"}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in"}},
        "/auth/registrar-dispositivo": {"post": {"tags": ["auth"], "summary": "Register the caller's device", "security": [{"BearerAuth": []}]}},
        "/auth/payments": {"get": {"tags": ["auth"], "summary": "Own payment status", "security": [{"BearerAuth": []}]}},
        "/link/request": {"post": {"tags": ["link"], "summary": "Request a pairing", "security": [{"BearerAuth": []}]}},
        "/link/respond": {"post": {"tags": ["link"], "summary": "Accept or reject a pairing request", "security": [{"BearerAuth": []}]}},
        "/link/devices": {"get": {"tags": ["link"], "summary": "List linked devices", "security": [{"BearerAuth": []}]}},
        "/link/pending": {"get": {"tags": ["link"], "summary": "List pending requests", "security": [{"BearerAuth": []}]}},
        "/link/unlink": {"post": {"tags": ["link"], "summary": "Remove a pairing", "security": [{"BearerAuth": []}]}},
        "/link/location/update": {"post": {"tags": ["location"], "summary": "Report the caller's position", "security": [{"BearerAuth": []}]}},
        "/link/location/linked": {"get": {"tags": ["location"], "summary": "Positions of linked accounts", "security": [{"BearerAuth": []}]}},
        "/link/location/blocked": {"get": {"tags": ["location"], "summary": "Positions of locked sellers", "security": [{"BearerAuth": []}]}},
        "/link/debt/configure": {"post": {"tags": ["debt"], "summary": "Configure a seller's debt", "security": [{"BearerAuth": []}]}},
        "/link/debt/payment": {"post": {"tags": ["debt"], "summary": "Register an installment payment", "security": [{"BearerAuth": []}]}},
        "/link/debt/{linkedUserId}": {"get": {"tags": ["debt"], "summary": "Get a seller's debt plan", "security": [{"BearerAuth": []}]}},
        "/payments/abono": {"post": {"tags": ["debt"], "summary": "Register a partial payment", "security": [{"BearerAuth": []}]}},
        "/lock/lock": {"post": {"tags": ["lock"], "summary": "Lock a seller's device", "security": [{"BearerAuth": []}]}},
        "/lock/unlock": {"post": {"tags": ["lock"], "summary": "Unlock a seller's device", "security": [{"BearerAuth": []}]}},
        "/lock/check": {"get": {"tags": ["lock"], "summary": "Lock state of the caller's device", "security": [{"BearerAuth": []}]}},
        "/lock/status/{vendedorId}": {"get": {"tags": ["lock"], "summary": "Lock state of a seller's device", "security": [{"BearerAuth": []}]}},
        "/contacts/emergency": {
            "get": {"tags": ["contacts"], "summary": "List emergency contacts", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["contacts"], "summary": "Mark or unmark an emergency contact", "security": [{"BearerAuth": []}]}
        },
        "/contacts/emergency/count": {"get": {"tags": ["contacts"], "summary": "Count emergency contacts", "security": [{"BearerAuth": []}]}},
        "/contacts/emergency/phone/{phoneNumber}": {"get": {"tags": ["contacts"], "summary": "Find an emergency contact by phone", "security": [{"BearerAuth": []}]}},
        "/contacts/emergency/{contactId}": {"delete": {"tags": ["contacts"], "summary": "Remove an emergency contact", "security": [{"BearerAuth": []}]}},
        "/notifications": {"get": {"tags": ["notifications"], "summary": "List notifications", "security": [{"BearerAuth": []}]}},
        "/notifications/unread-count": {"get": {"tags": ["notifications"], "summary": "Count unread notifications", "security": [{"BearerAuth": []}]}},
        "/notifications/{notificationId}/read": {"post": {"tags": ["notifications"], "summary": "Mark a notification as read", "security": [{"BearerAuth": []}]}},
        "/notifications/read-all": {"post": {"tags": ["notifications"], "summary": "Mark all notifications as read", "security": [{"BearerAuth": []}]}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Paylock API",
	Description:      "Device pairing, remote lock and installment debt tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
