package routes

import (
	"log"
	"os"
	"strconv"

	_ "github.com/babulhossenshuvo/kyamipay/docs" // swag generated docs
	"github.com/babulhossenshuvo/kyamipay/internal/adapter/http/handlers"
	"github.com/babulhossenshuvo/kyamipay/internal/adapter/persistence/repository"
	"github.com/babulhossenshuvo/kyamipay/internal/config"
	"github.com/babulhossenshuvo/kyamipay/internal/infrastructure/database"
	"github.com/babulhossenshuvo/kyamipay/internal/infrastructure/events"
	"github.com/babulhossenshuvo/kyamipay/internal/infrastructure/payments"
	"github.com/babulhossenshuvo/kyamipay/internal/infrastructure/security"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[kpay][routes] invalid configuration: %v", err)
	}

	ddb := database.ConnectDynamoDB()
	repo := repository.NewTransactionDynamoRepository(ddb)

	gateway, err := payments.NewKPayGateway(cfg)
	if err != nil {
		log.Fatalf("[kpay][routes] gateway setup failed: %v", err)
	}

	dispatcher := events.NewDispatcher()
	if forwardURL := os.Getenv("KPAY_FORWARD_URL"); forwardURL != "" {
		dispatcher.OnPaymentConfirmed(events.NewWebhookForwarder(forwardURL))
		log.Printf("[kpay][routes] forwarding confirmed payments url=%s", forwardURL)
	}

	referenceUseCase := usecase.NewReferenceUseCase(repo, gateway, dispatcher, cfg.Currency, cfg.ReferenceExpiryHours)

	referenceHandler := handlers.NewReferenceHandler(referenceUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addKPayRoutes(v1, referenceHandler)

	if cfg.Webhook.Enabled {
		verifier := security.NewWebhookVerifier(cfg.Webhook.Secret)
		webhookUseCase := usecase.NewWebhookUseCase(repo, verifier, dispatcher)
		webhookHandler := handlers.NewWebhookHandler(webhookUseCase)
		router.POST(cfg.Webhook.Path, webhookHandler.HandleNotification)
		log.Printf("[kpay][routes] webhook enabled path=%s signed=%t", cfg.Webhook.Path, verifier.SecretConfigured())
	}
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
