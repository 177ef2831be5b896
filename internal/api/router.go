package api

import (
	"context"
	"net/http"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/inventory"
	"github.com/erazemk/zaloga/internal/model"
)

// Authenticator resolves session tokens for SessionMiddleware.
type Authenticator interface {
	RequireSession(ctx context.Context, token string) (*model.Session, error)
}

// Deps holds the services the router dispatches to.
type Deps struct {
	Auth         *auth.Authenticator
	Inventory    *inventory.Gateway
	DB           Pinger
	SecureCookie bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &HealthHandler{DB: deps.DB}
	authHandler := &AuthHandler{Auth: deps.Auth, SecureCookie: deps.SecureCookie}
	inventoryHandler := &InventoryHandler{Gateway: deps.Inventory}

	sessionMW := SessionMiddleware(deps.Auth, SessionCookie)

	// Public.
	mux.HandleFunc("GET /{$}", healthHandler.Welcome)
	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)

	// Session required.
	mux.Handle("POST /logout", sessionMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /inventory", sessionMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /inventory", sessionMW(http.HandlerFunc(inventoryHandler.Create)))
	mux.Handle("GET /inventory/{id}", sessionMW(http.HandlerFunc(inventoryHandler.Get)))
	mux.Handle("PUT /inventory/{id}", sessionMW(http.HandlerFunc(inventoryHandler.Update)))
	mux.Handle("DELETE /inventory/{id}", sessionMW(http.HandlerFunc(inventoryHandler.Delete)))

	return mux
}
