package server

import (
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/spectre/docs/swagger" // registers the generated API docs
)

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Spectre Dashboard API
// @version 0.1
// @description Session-scoped form submission and live mount updates for the Spectre recon dashboard.
// @contact.name Spectre Maintainers
// @contact.url https://github.com/raysh454/spectre
// @BasePath /

func (s *Server) swaggerRoutes() {
	s.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
