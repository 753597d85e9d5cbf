package server

//go:generate swag init -d ../.. -g internal/server/swagger.go -o ../../docs/swagger

// @title sitegrade API
// @version 0.1
// @description Start SEO site audits, follow their jobs and read the stored reports.
// @contact.name Klema Creative
// @contact.url https://klemacreative.com
// @BasePath /
