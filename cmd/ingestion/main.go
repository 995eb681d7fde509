// cmd/ingestion/main.go
package main

import (
	"log"

	"ingestion-service/internal/api"
	"ingestion-service/internal/api/handlers"
	"ingestion-service/internal/api/middleware"
	"ingestion-service/internal/api/responses"
	"ingestion-service/internal/core/ingestion"
	"ingestion-service/internal/core/workbook"
	"ingestion-service/internal/pkg/config"
	"ingestion-service/internal/pkg/logger"
	"ingestion-service/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuração inválida: ", err)
	}
	cfg.LogConfig()

	appLogger := logger.Initialize(cfg.Environment)
	defer appLogger.Sync()
	responses.InitLogger(appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := storage.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Falha ao conectar ao banco", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			appLogger.Fatal("Falha nas migrações", zap.Error(err))
		}
	}

	repository := storage.NewMetricsRepository(db.DB, cfg.WriteBatchSize)
	ingestionService := ingestion.NewService(
		workbook.NewLoader(cfg.MaxFileSizeBytes()),
		repository,
		logger.NewServiceLogger("ingestion"),
		ingestion.WithRestrictedRoles(cfg.RestrictedRoles...),
	)
	ingestionHandler := handlers.NewIngestionHandler(ingestionService)

	router := api.NewRouter(
		ingestionHandler,
		middleware.RequireUser([]byte(cfg.JWTSecret), cfg.RestrictedRoles),
		cfg.MaxFileSizeBytes(),
	)

	log.Printf("🚀 Ingestion Service (Go) iniciado e escutando na porta %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Falha ao iniciar o servidor de ingestão: ", err)
	}
}
