package router

import (
	"net/http"

	"github.com/1kta4/finances/internal/config"
	"github.com/1kta4/finances/internal/handler"
	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/middleware"
	"github.com/1kta4/finances/internal/subscription"
	"github.com/1kta4/finances/internal/syncer"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter configures the Gin engine and wires the API routes.
func SetupRouter(cfg *config.Config, store *ledger.Store, engine *subscription.Engine, rec *syncer.Reconciler, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(cfg.JWT)
	api.POST("/auth/token", authHandler.Token)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	categoryHandler := handler.NewCategoryHandler(store)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Rename)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(store, engine)
	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	goalHandler := handler.NewGoalHandler(store)
	protected.GET("/goals", goalHandler.List)
	protected.POST("/goals", goalHandler.Create)
	protected.PUT("/goals/:id", goalHandler.Update)
	protected.DELETE("/goals/:id", goalHandler.Delete)

	settingsHandler := handler.NewSettingsHandler(store)
	protected.GET("/settings", settingsHandler.Get)
	protected.PUT("/settings", settingsHandler.Update)
	protected.POST("/settings/reset", settingsHandler.Reset)

	statsHandler := handler.NewStatsHandler(store)
	protected.GET("/stats/balance", statsHandler.Balance)
	protected.GET("/stats/categories", statsHandler.Categories)

	syncHandler := handler.NewSyncHandler(rec)
	protected.POST("/sync/push", syncHandler.Push)
	protected.POST("/sync/pull", syncHandler.Pull)

	exportHandler := handler.NewExportHandler(store)
	protected.GET("/export/csv", exportHandler.CSV)
	protected.GET("/export/xlsx", exportHandler.XLSX)

	return r
}
