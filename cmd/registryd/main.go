package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/zots0127/registry/internal/adapter/handler"
	"github.com/zots0127/registry/internal/domain/repository"
	"github.com/zots0127/registry/internal/infrastructure/backupstore"
	"github.com/zots0127/registry/internal/infrastructure/paymentclient"
	infra "github.com/zots0127/registry/internal/infrastructure/repository"
	"github.com/zots0127/registry/internal/usecase"
	"github.com/zots0127/registry/pkg/config"
	"github.com/zots0127/registry/pkg/middleware"
)

const version = "1.0.0"

func main() {
	cfg := config.LoadConfig()

	store, err := infra.NewStore(cfg.Storage.Database, infra.QuotaDefaults{
		MaxBytes: cfg.Registry.DefaultMaxBytes,
		MaxFiles: cfg.Registry.DefaultMaxFiles,
	})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer store.Close()

	payment := paymentclient.New(cfg.Payment.Endpoint, cfg.Registry.FeeCollector, cfg.Payment.Timeout())
	audit := infra.NewAuditRepository(store.DB())

	var verifier repository.BackupVerifier
	if cfg.Backup.Enabled {
		verifier, err = backupstore.NewS3Verifier(backupstore.Config{
			Endpoint:  cfg.Backup.Endpoint,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
			Region:    cfg.Backup.Region,
			Bucket:    cfg.Backup.Bucket,
		})
		if err != nil {
			log.Fatal("Failed to initialize backup store:", err)
		}
	}

	registryUseCase := usecase.NewRegistryUseCase(store, payment, audit, usecase.RegistryConfig{
		RegistrationFee: cfg.Registry.RegistrationFee,
		MaxFileSize:     cfg.Registry.MaxFileSize,
		CacheSize:       cfg.Registry.CacheSize,
		CacheTTL:        cfg.Registry.CacheTTL(),
	})
	backupUseCase := usecase.NewBackupUseCase(store, verifier, audit)
	healthUseCase := usecase.NewHealthUseCase(infra.NewHealthRepository(store.DB()), version)

	router := gin.Default()

	handler.NewHealthHandler(healthUseCase).RegisterRoutes(router)

	api := router.Group("/api", middleware.APIKeyAuth(cfg.API.Key))
	handler.NewRegistryHandler(registryUseCase, backupUseCase).RegisterRoutes(api)

	admin := router.Group("/api/admin", middleware.APIKeyAuth(cfg.API.Key))
	handler.NewAdminHandler(registryUseCase).RegisterRoutes(admin)

	log.Printf("Starting registry server on port %s", cfg.API.Port)
	if err := router.Run(":" + cfg.API.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
