package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/marioalvarez/rusty-api-maz/internal/adapters/dynamo"
	s3adapter "github.com/marioalvarez/rusty-api-maz/internal/adapters/s3"
	"github.com/marioalvarez/rusty-api-maz/internal/config"
	"github.com/marioalvarez/rusty-api-maz/internal/middleware"
	"github.com/marioalvarez/rusty-api-maz/internal/processor"
	"github.com/marioalvarez/rusty-api-maz/internal/transport"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region),
	)
	if err != nil {
		logrus.Fatalf("Failed to load AWS configuration: %v", err)
	}

	database := dynamo.NewFromConfig(awsCfg)
	storage := s3adapter.NewFromConfig(awsCfg, s3adapter.Options{
		EndpointURL:  cfg.AWS.EndpointURL,
		UsePathStyle: cfg.AWS.S3UsePathStyle,
	})

	handler := transport.NewHandler(processor.New(database, storage, cfg.Demo))

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		process := processRoute(handler)
		v1.GET("/process", process)
		v1.POST("/process", process)
		v1.GET("/process/:table/:id", process)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port": cfg.Port,
			"mode": config.GetDeploymentMode(),
		}).Info("Starting server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// processRoute converts a gin request into the transport request shared
// with the Lambda entrypoint
func processRoute(handler *transport.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}

		queryParams := make(map[string]string)
		for k, vs := range c.Request.URL.Query() {
			if len(vs) > 0 {
				queryParams[k] = vs[0]
			}
		}

		pathParams := make(map[string]string)
		for _, p := range c.Params {
			pathParams[p.Key] = p.Value
		}

		resp := handler.Handle(c.Request.Context(), &transport.Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			QueryParams: queryParams,
			PathParams:  pathParams,
			Body:        body,
		})

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
	}
}
