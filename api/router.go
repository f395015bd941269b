package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_api/internal/clients"
	"sales_api/internal/config"
	"sales_api/internal/sales"
)

// InitRoutes wires the sales service onto the given Gin engine: storage,
// collaborator clients, orchestration service, and handlers. A configured
// SALES_DB_PATH selects the durable bolt store; otherwise sales are kept
// in memory.
func InitRoutes(e *gin.Engine, cfg *config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	return InitRoutesWithLogger(e, cfg, logger)
}

// InitRoutesWithLogger is InitRoutes with an injected logger, used by tests
// to wire the routes against mock collaborator servers.
func InitRoutesWithLogger(e *gin.Engine, cfg *config.Config, logger *zap.Logger) error {
	var storage sales.Storage
	if cfg.SalesDBPath != "" {
		boltStorage, err := sales.NewBoltStorage(cfg.SalesDBPath)
		if err != nil {
			return err
		}
		storage = boltStorage
	} else {
		storage = sales.NewLocalStorage()
	}

	catalogClient := clients.NewCatalogClient(cfg, logger)
	customersClient := clients.NewCustomersClient(cfg, logger)

	salesService := sales.NewService(storage, catalogClient, customersClient, logger)
	salesHandler := NewSalesHandler(salesService, logger)

	e.POST("/sale", salesHandler.handleMakeSale)
	e.GET("/goods", salesHandler.handleGetGoods)
	e.GET("/goods/:id", salesHandler.handleGetGoodsDetails)
	e.GET("/sales", salesHandler.handleSearchSales)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	return nil
}
