package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title SiteGuard API
// @version 1.1
// @description Interactive documentation for the SiteGuard scan and sandbox API.
// @contact.name SiteGuard Maintainers
// @BasePath /
