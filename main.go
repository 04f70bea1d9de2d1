package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/cppla/exhibition/config"
	"github.com/cppla/exhibition/models"
	"github.com/cppla/exhibition/routes"
	"github.com/cppla/exhibition/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	db := config.InitDatabase(cfg, models.All()...)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Logger.Fatal("create upload directory failed", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	r := routes.SetupRouter(db, cfg)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
