// Package routes wires the HTTP handlers onto the gin router.
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tamsys/backend/internal/handlers"
	"github.com/tamsys/backend/internal/middleware"
)

// Handlers bundles every handler the router needs
type Handlers struct {
	Gap        *handlers.GapHandler
	Record     *handlers.RecordHandler
	Task       *handlers.TaskHandler
	Product    *handlers.ProductHandler
	Tenant     *handlers.TenantHandler
	GlobalData *handlers.GlobalDataHandler
	Admin      *handlers.AdminHandler
}

// RegisterRoutes configures all API routes
func RegisterRoutes(router *gin.Engine, h Handlers, rateLimiter *middleware.RateLimiter) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	api := router.Group("/api")
	api.Use(rateLimiter.Middleware(), middleware.AuthMiddleware())

	// Product catalog and gap analysis
	products := api.Group("/products")
	{
		products.POST("", h.Product.CreateProduct)
		products.GET("", h.Product.ListProducts)
		products.GET("/:id", h.Product.GetProduct)
		products.PUT("/:id", h.Product.UpdateProduct)
		products.DELETE("/:id", h.Product.DeleteProduct)

		products.POST("/:id/gap-analysis", h.Gap.AnalyzeGaps)
		products.POST("/:id/compliance/bulk-init", h.Gap.BulkInitCompliance)
	}

	// Certification record lifecycle
	records := api.Group("/records")
	{
		records.POST("", h.Record.CreateRecord)
		records.GET("", h.Record.ListRecords)
		records.GET("/:id", h.Record.GetRecord)
		records.PATCH("/:id/status", h.Record.UpdateRecordStatus)
		records.PATCH("/:id/labeling", h.Record.UpdateLabelingStatus)
		records.GET("/:id/label-artwork", h.Record.GetLabelArtwork)
		records.GET("/:id/progress", h.Record.GetTaskProgress)

		records.GET("/:id/tasks", h.Task.ListTasks)
		records.POST("/:id/tasks", h.Task.CreateTask)
	}

	// Tasks and worknotes
	tasks := api.Group("/tasks")
	{
		tasks.PATCH("/:id", h.Task.UpdateTask)
		tasks.GET("/:id/notes", h.Task.ListNotes)
		tasks.POST("/:id/notes", h.Task.AddNote)
	}

	// Tenant self-service alert thresholds
	rules := api.Group("/notification-rules")
	{
		rules.POST("", h.Tenant.CreateNotificationRule)
		rules.GET("", h.Tenant.ListNotificationRules)
		rules.PUT("/:id", h.Tenant.UpdateNotificationRule)
		rules.DELETE("/:id", h.Tenant.DeleteNotificationRule)
	}

	// Administration: tenants, reference data, matrix, sweeper
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/tenants", h.Tenant.CreateTenant)
		admin.GET("/tenants", h.Tenant.ListTenants)
		admin.GET("/tenants/:id", h.Tenant.GetTenant)
		admin.PUT("/tenants/:id", h.Tenant.UpdateTenant)
		admin.DELETE("/tenants/:id", h.Tenant.DeactivateTenant)
		admin.POST("/tokens", h.Admin.IssueToken)

		admin.POST("/technologies", h.GlobalData.CreateTechnology)
		admin.GET("/technologies", h.GlobalData.ListTechnologies)
		admin.DELETE("/technologies/:id", h.GlobalData.DeleteTechnology)
		admin.POST("/countries", h.GlobalData.CreateCountry)
		admin.GET("/countries", h.GlobalData.ListCountries)
		admin.DELETE("/countries/:id", h.GlobalData.DeleteCountry)
		admin.POST("/certifications", h.GlobalData.CreateCertification)
		admin.GET("/certifications", h.GlobalData.ListCertifications)
		admin.POST("/rules", h.GlobalData.CreateRule)
		admin.GET("/rules", h.GlobalData.ListRules)
		admin.DELETE("/rules/:id", h.GlobalData.DeleteRule)

		admin.GET("/matrix", h.Admin.MatrixStatus)
		admin.POST("/matrix/reload", h.Admin.ReloadMatrix)
		admin.POST("/sweep", h.Admin.RunSweep)
		admin.GET("/artworks", h.Admin.ListArtworks)
	}
}
