package router

import "net/http"

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	accountController RouteRegistrar,
	sessionController RouteRegistrar,
	ledgerController RouteRegistrar,
	adminController RouteRegistrar,
	healthController RouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	for _, registrar := range []RouteRegistrar{
		accountController,
		sessionController,
		ledgerController,
		adminController,
		healthController,
	} {
		if registrar != nil {
			registrar.RegisterRoutes(mux, authMiddleware)
		}
	}

	return mux
}
