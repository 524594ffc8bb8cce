package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
	"github.com/dalfonso89/bitcoin-fees-service/internal/logger"
	"github.com/dalfonso89/bitcoin-fees-service/internal/middleware"
	"github.com/dalfonso89/bitcoin-fees-service/internal/models"
	"github.com/dalfonso89/bitcoin-fees-service/internal/ratelimit"
	"github.com/dalfonso89/bitcoin-fees-service/internal/service"
)

const Version = "1.0.0"

// HandlerConfig holds the dependencies of Handlers
type HandlerConfig struct {
	Logger      *logger.Logger
	FeesService *service.FeesService
	RateLimiter *ratelimit.Limiter
}

// Handlers contains all HTTP handlers
type Handlers struct {
	logger      *logger.Logger
	feesService *service.FeesService
	rateLimiter *ratelimit.Limiter
	startTime   time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	return &Handlers{
		logger:      handlerConfig.Logger,
		feesService: handlerConfig.FeesService,
		rateLimiter: handlerConfig.RateLimiter,
		startTime:   time.Now(),
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(handlers.corsMiddleware())

	if handlers.rateLimiter != nil {
		router.Use(handlers.rateLimitMiddleware())
	}

	router.GET("/health", handlers.HealthCheck)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/fees/recommended", handlers.GetRecommendedFees)
		apiV1.GET("/fees/list", handlers.GetFeeList)
		apiV1.GET("/fees/snapshot", handlers.GetSnapshot)
		apiV1.GET("/format/:satoshis", handlers.FormatSatoshis)
	}

	return router
}

// HealthCheck reports service uptime and whether the fee API answers
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	healthStatus := "healthy"
	upstreamStatus := "unconfigured"

	if handlers.feesService != nil {
		upstreamStatus = "ok"
		if err := handlers.feesService.HealthCheck(context.Request.Context()); err != nil {
			healthStatus = "degraded"
			upstreamStatus = "unavailable"
			handlers.logger.Warnf("Fee API health check failed: %v", err)
		}
	}

	context.JSON(http.StatusOK, models.HealthCheck{
		Status:    healthStatus,
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(handlers.startTime).String(),
		Upstream:  upstreamStatus,
	})
}

// GetRecommendedFees returns the recommended fees with display strings
func (handlers *Handlers) GetRecommendedFees(context *gin.Context) {
	if !handlers.requireFeesService(context) {
		return
	}

	response, err := handlers.feesService.GetRecommendedFees(context.Request.Context())
	if err != nil {
		handlers.writeServiceError(context, "failed to fetch recommended fees", err)
		return
	}
	context.JSON(http.StatusOK, response)
}

// GetFeeList returns the fee brackets in upstream order
func (handlers *Handlers) GetFeeList(context *gin.Context) {
	if !handlers.requireFeesService(context) {
		return
	}

	response, err := handlers.feesService.GetFeeList(context.Request.Context())
	if err != nil {
		handlers.writeServiceError(context, "failed to fetch fee list", err)
		return
	}
	context.JSON(http.StatusOK, response)
}

// GetSnapshot returns both fee views fetched concurrently
func (handlers *Handlers) GetSnapshot(context *gin.Context) {
	if !handlers.requireFeesService(context) {
		return
	}

	response, err := handlers.feesService.Snapshot(context.Request.Context())
	if err != nil {
		handlers.writeServiceError(context, "failed to fetch fee snapshot", err)
		return
	}
	context.JSON(http.StatusOK, response)
}

// FormatSatoshis renders a satoshi amount the way fee summaries do
func (handlers *Handlers) FormatSatoshis(context *gin.Context) {
	satoshis, parseError := strconv.ParseInt(context.Param("satoshis"), 10, 64)
	if parseError != nil || satoshis < 0 {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid satoshi amount", "amount must be a non-negative integer")
		return
	}

	context.JSON(http.StatusOK, models.FormatResponse{
		Satoshis:  satoshis,
		Formatted: bitcoinfees.FormatSatoshis(satoshis),
	})
}

func (handlers *Handlers) requireFeesService(context *gin.Context) bool {
	if handlers.feesService == nil {
		handlers.writeErrorResponse(context, http.StatusServiceUnavailable, "fees service unavailable", "not configured")
		return false
	}
	return true
}

// writeServiceError maps a service error type onto an HTTP status
func (handlers *Handlers) writeServiceError(context *gin.Context, message string, err error) {
	statusCode := http.StatusInternalServerError

	var serviceError *service.ServiceError
	if errors.As(err, &serviceError) {
		switch serviceError.Type {
		case service.ErrorTypeUpstreamTransport, service.ErrorTypeUpstreamInvalid:
			statusCode = http.StatusBadGateway
		case service.ErrorTypeContextCancelled:
			statusCode = http.StatusGatewayTimeout
		}
	}

	_ = context.Error(err)
	handlers.writeErrorResponse(context, statusCode, message, err.Error())
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, errorDetails string) {
	context.JSON(statusCode, models.ErrorResponse{
		Error:   errorMessage,
		Message: errorDetails,
		Code:    statusCode,
	})
}

// corsMiddleware allows read-only cross-origin access
func (handlers *Handlers) corsMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("Access-Control-Allow-Origin", "*")
		context.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		context.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if context.Request.Method == http.MethodOptions {
			context.AbortWithStatus(http.StatusNoContent)
			return
		}

		context.Next()
	}
}

// rateLimitMiddleware rejects clients that exhausted their token bucket
func (handlers *Handlers) rateLimitMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := handlers.rateLimiter.GetClientIP(context.Request)

		if !handlers.rateLimiter.Allow(clientIP) {
			handlers.logger.Warnf("Rate limit exceeded for IP: %s", clientIP)
			context.Header("X-RateLimit-Limit", strconv.Itoa(handlers.rateLimiter.Limit()))
			context.Header("X-RateLimit-Remaining", "0")
			context.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(handlers.rateLimiter.Window()).Unix(), 10))
			handlers.writeErrorResponse(context, http.StatusTooManyRequests, "rate limit exceeded", "too many requests")
			context.Abort()
			return
		}

		context.Next()
	}
}
