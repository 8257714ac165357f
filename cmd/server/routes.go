package main

import (
	"github.com/gin-gonic/gin"

	"docisn-pharmacy/internal/gateway/handlers"
	"docisn-pharmacy/internal/gateway/middleware"
)

func registerRoutes(
	r *gin.Engine,
	inventoryHandler *handlers.InventoryHTTPHandler,
	orderHandler *handlers.OrderHTTPHandler,
	reportHandler *handlers.ReportHTTPHandler,
	wsHandler *handlers.WSHandler,
	rateLimit string,
) {
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(rateLimit))

	inventoryGroup := r.Group("/inventory")
	{
		inventoryGroup.POST("", inventoryHandler.CreateInventory)
		inventoryGroup.GET("", inventoryHandler.GetAllInventories)
		inventoryGroup.GET("/low-stock-drugs", inventoryHandler.LowStockDrugs)
		inventoryGroup.GET("/expired-drugs", inventoryHandler.ExpiredDrugs)
		inventoryGroup.POST("/drugs/expiring-soon", inventoryHandler.DrugsExpiringSoon)
		inventoryGroup.GET("/:id", inventoryHandler.GetInventory)
		inventoryGroup.PUT("/:id", inventoryHandler.UpdateInventory)
		inventoryGroup.DELETE("/:id", inventoryHandler.DeleteInventory)
	}

	patientGroup := r.Group("/patients")
	{
		patientGroup.POST("/orders", orderHandler.CreateOrder)
		patientGroup.GET("/orders", orderHandler.ListOrders)
		patientGroup.GET("/orders/:id", orderHandler.GetOrder)
		patientGroup.PUT("/orders/:id", orderHandler.UpdateOrder)

		patientGroup.GET("/financial-summary", reportHandler.FinancialSummary)
		patientGroup.GET("/sales-details", reportHandler.SalesDetails)
		patientGroup.GET("/sales-graph", reportHandler.SalesGraph)
		patientGroup.GET("/order-summary", reportHandler.OrderSummary)
		patientGroup.POST("/order-samples", reportHandler.OrderSamples)
		patientGroup.POST("/top-customers", reportHandler.TopCustomers)
		patientGroup.GET("/top-customers-detailed", reportHandler.TopCustomersDetailed)
		patientGroup.GET("/cashflow", reportHandler.CashFlow)
	}

	r.GET("/ws", wsHandler.Serve)
}
