package routes

import (
	"github.com/babulhossenshuvo/kyamipay/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathReferences = "/kpay/references"
	PathSimulate   = "/kpay/simulate"
)

func addKPayRoutes(rg *gin.RouterGroup, referenceHandler *handlers.ReferenceHandler) {
	references := rg.Group(PathReferences)
	{
		references.POST("", referenceHandler.GenerateReference)
		references.GET("", referenceHandler.ListReferences)
		references.POST("/cancel", referenceHandler.CancelReference)
		references.GET("/:reference", referenceHandler.CheckPayment)
	}

	rg.POST(PathSimulate, referenceHandler.SimulatePayment)
}
