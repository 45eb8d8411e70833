package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"comichub/internal/auth"
	"comichub/internal/catalog"
	"comichub/internal/dispatch"
	"comichub/internal/httpapi"
	"comichub/internal/upload"
	"comichub/pkg/database"
	"comichub/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(httpapi.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	authCfg := utils.LoadAuthConfig()
	storageCfg := utils.LoadStorageConfig()

	// Auth
	authRepo := auth.NewRepo(db)
	authSvc := auth.NewService(authRepo, []byte(authCfg.JWTSecret), authCfg.JWTDuration)
	auth.NewHandler(authSvc).RegisterRoutes(router.Group("/auth"))

	// Action-routed data access
	catalogRepo := catalog.NewRepo(db, storageCfg.CDNHost)
	dbRouter := dispatch.NewRouter(catalogRepo, authSvc)
	dispatch.NewHandler(dbRouter).RegisterRoutes(router)

	// Uploads
	storage := upload.NewHTTPStorage(storageCfg.Endpoint, storageCfg.Zone, storageCfg.AccessKey)
	gateway := upload.NewGateway(storage, storageCfg.CDNHost)
	upload.NewHandler(gateway, authSvc).RegisterRoutes(router)

	addr := os.Getenv("COMICHUB_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
