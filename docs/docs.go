// Package docs registers the Storefront API document served by the swagger UI.
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
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "gender", "in": "query"},
                    {"type": "string", "name": "sizes", "in": "query"},
                    {"type": "string", "name": "colors", "in": "query"},
                    {"type": "string", "name": "tags", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "number", "name": "minPrice", "in": "query"},
                    {"type": "number", "name": "maxPrice", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query", "enum": ["price-low", "price-high", "newest"]},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/product.Page"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/product.Product"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/payment/create-order": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Create an order from the cart or direct items",
                "parameters": [{
                    "name": "body", "in": "body", "required": true,
                    "schema": {"$ref": "#/definitions/checkout.Request"}
                }],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checkout.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "409": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/payment/payu/callback": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["checkout"],
                "summary": "Gateway callback; always redirects to the storefront",
                "parameters": [
                    {"type": "string", "name": "status", "in": "formData"},
                    {"type": "string", "name": "txnid", "in": "formData"},
                    {"type": "string", "name": "amount", "in": "formData"},
                    {"type": "string", "name": "productinfo", "in": "formData"},
                    {"type": "string", "name": "firstname", "in": "formData"},
                    {"type": "string", "name": "email", "in": "formData"},
                    {"type": "string", "name": "key", "in": "formData"},
                    {"type": "string", "name": "hash", "in": "formData"},
                    {"type": "string", "name": "mihpayid", "in": "formData"}
                ],
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/admin/orders/{id}/refund": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Refund order items",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.RefundRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "product.HTTPError": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "product.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string"},
                "originalPrice": {"type": "string"},
                "stock": {"type": "integer"},
                "category": {"type": "string"},
                "gender": {"type": "string"},
                "sizes": {"type": "array", "items": {"type": "string"}},
                "colors": {"type": "array", "items": {"type": "string"}},
                "tags": {"type": "array", "items": {"type": "string"}},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "product.Page": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/product.Product"}}
            }
        },
        "checkout.Request": {
            "type": "object",
            "properties": {
                "paymentMethod": {"type": "string", "enum": ["ONLINE", "COD"]},
                "directItems": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "productId": {"type": "string"},
                            "quantity": {"type": "integer"},
                            "size": {"type": "string"},
                            "color": {"type": "string"}
                        }
                    }
                },
                "address": {"type": "object"}
            }
        },
        "checkout.Result": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "mode": {"type": "string"},
                "orderId": {"type": "string"},
                "paymentUrl": {"type": "string"},
                "gatewayParams": {"type": "object"}
            }
        },
        "order.RefundRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"},
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "orderItemId": {"type": "string"},
                            "quantity": {"type": "integer"}
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Catalog, cart, checkout and admin endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
