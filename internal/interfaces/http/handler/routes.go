package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/interfaces/http/router"
)

// DocumentRoutes creates the route group for document generation
func DocumentRoutes(h *DocumentHandler, middleware ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")
	group.Use(middleware...)

	group.POST("/render", h.Render).Describe("render one document of a transaction")
	group.POST("/groups", h.AllocateDocNo).Describe("reuse or create the shared doc group of a transaction")
	group.GET("/types", h.ListTypes).Describe("document-type catalog")
	group.GET("/engines", h.Engines).Describe("PDF engine availability")

	return group
}

// NumberingRoutes creates the route group for transaction numbering
func NumberingRoutes(h *NumberingHandler, middleware ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("numbering", "/numbering")
	group.Use(middleware...)

	group.POST("/next", h.NextNumber).Describe("allocate the next transaction number")
	group.POST("/sync", h.SyncCounter).Describe("resynchronize the counter after deletions")
	group.POST("/observe", h.ObserveNumber).Describe("raise the counter after a manual number is saved")

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")

	group.GET("/info", h.GetSystemInfo)
	group.GET("/ping", h.Ping)
	group.GET("/health", h.Health)
	group.GET("/routes", h.Routes)

	return group
}
