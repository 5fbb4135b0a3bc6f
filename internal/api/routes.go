package api

import (
	"crypto/rsa"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"coresync/coach/internal/service"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Chat    service.ChatService
	Program service.ProgramService
	Webhook service.WebhookService
	Profile service.ProfileService
}

func SetupRoutes(
	router *gin.Engine,
	sessionKey *rsa.PublicKey,
	services Services,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) {
	chatHandler := NewChatHandler(services.Chat)
	programHandler := NewProgramHandler(services.Program)
	webhookHandler := NewWebhookHandler(services.Webhook)
	profileHandler := NewProfileHandler(services.Profile)

	optionalSession := SessionMiddleware(sessionKey, false, logger)
	requiredSession := SessionMiddleware(sessionKey, true, logger)

	router.Use(RequestID(), RequestLogger(logger))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Server-to-server callbacks, authenticated by signature or by the voice platform
	router.POST("/clerk-webhook", webhookHandler.ClerkWebhook)
	router.POST("/vapi/generate-program", programHandler.GenerateProgram)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/chatbot", optionalSession, chatHandler.Chat)
		apiGroup.GET("/voice/config", optionalSession, profileHandler.GetVoiceConfig)

		protected := apiGroup.Group("")
		protected.Use(requiredSession)
		{
			protected.GET("/plans/active", profileHandler.GetActivePlan)
		}
	}
}
