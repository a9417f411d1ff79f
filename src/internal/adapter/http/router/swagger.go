package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Account Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Account Ledger API",
    "version": "1.0.0"
  },
  "components": {
    "securitySchemes": {
      "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
    },
    "schemas": {
      "Amount": {
        "type": "object",
        "required": ["amount"],
        "properties": {"amount": {"type": "string", "example": "25.00"}}
      }
    }
  },
  "paths": {
    "/accounts": {
      "post": {
        "summary": "Create account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["username", "password", "confirmPassword"],
                "properties": {
                  "username": {"type": "string", "minLength": 3},
                  "password": {"type": "string", "minLength": 4},
                  "confirmPassword": {"type": "string"},
                  "initialBalance": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "409": {"description": "Username already exists"}
        }
      }
    },
    "/login": {
      "post": {
        "summary": "Log in and receive a session token",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["username", "password"],
                "properties": {
                  "username": {"type": "string"},
                  "password": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Session token, balance and history"},
          "401": {"description": "Invalid credentials"}
        }
      }
    },
    "/logout": {
      "post": {
        "summary": "End the current session",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Logged out"},
          "401": {"description": "Unauthorized"}
        }
      }
    },
    "/balance": {
      "get": {
        "summary": "Balance of the session account",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "OK"},
          "401": {"description": "Unauthorized"}
        }
      }
    },
    "/deposit": {
      "post": {
        "summary": "Cash deposit",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Amount"}}}
        },
        "responses": {
          "200": {"description": "Transaction recorded"},
          "400": {"description": "Amount must be positive, at most 1e15, with at most 8 decimal places"}
        }
      }
    },
    "/withdraw": {
      "post": {
        "summary": "Cash withdrawal",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Amount"}}}
        },
        "responses": {
          "200": {"description": "Transaction recorded"},
          "400": {"description": "Amount must be positive, at most 1e15, with at most 8 decimal places"},
          "422": {"description": "Insufficient funds"}
        }
      }
    },
    "/transfer": {
      "post": {
        "summary": "Transfer to another account",
        "security": [{"BearerAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["to", "amount"],
                "properties": {
                  "to": {"type": "string"},
                  "amount": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Debit and credit entries"},
          "400": {"description": "Validation error"},
          "404": {"description": "Account not found"},
          "422": {"description": "Insufficient funds"}
        }
      }
    },
    "/history": {
      "get": {
        "summary": "Transaction history of the session account",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "Oldest first"}
        }
      }
    },
    "/admin/accounts": {
      "get": {
        "summary": "All accounts sorted by username",
        "security": [{"BearerAuth": []}],
        "responses": {
          "200": {"description": "OK"},
          "403": {"description": "Admin access required"}
        }
      }
    },
    "/health": {
      "get": {
        "summary": "Liveness",
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`
