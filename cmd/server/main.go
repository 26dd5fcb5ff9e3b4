package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lk2023060901/image-studio-backend/internal/conf"
	"github.com/lk2023060901/image-studio-backend/internal/data"
	imagebiz "github.com/lk2023060901/image-studio-backend/internal/image/biz"
	imagedata "github.com/lk2023060901/image-studio-backend/internal/image/data"
	imageservice "github.com/lk2023060901/image-studio-backend/internal/image/service"
	"github.com/lk2023060901/image-studio-backend/internal/imagegen"
	"github.com/lk2023060901/image-studio-backend/internal/imagesearch"
	searchservice "github.com/lk2023060901/image-studio-backend/internal/imagesearch/service"
	searchtypes "github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/image-studio-backend/internal/server"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize global logger
	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Initialize data layer
	d, cleanup, err := data.NewData(config, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Initialize image generation facade
	generator, err := imagegen.NewGenerator(&imagegen.Config{
		APIKey:       config.OpenAI.APIKey,
		BaseURL:      config.OpenAI.BaseURL,
		DefaultModel: config.OpenAI.DefaultModel,
		Timeout:      config.OpenAI.Timeout,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize image generator", zap.Error(err))
	}

	// Initialize search aggregator
	cache := imagesearch.NewSearchCache(d.RedisClient, config.Search.CacheTTL, log)
	aggregator, err := imagesearch.NewAggregator(&imagesearch.Config{
		Pexels:            providerConfig(searchtypes.ProviderPexels, config.Search.Pexels),
		DataForSEO:        providerConfig(searchtypes.ProviderDataForSEO, config.Search.DataForSEO),
		Everypixel:        providerConfig(searchtypes.ProviderEverypixel, config.Search.Everypixel),
		Shutterstock:      providerConfig(searchtypes.ProviderShutterstock, config.Search.Shutterstock),
		FreeSourceDomains: config.Search.FreeSourceDomains,
	}, generator, cache, log)
	if err != nil {
		log.Fatal("failed to initialize search aggregator", zap.Error(err))
	}

	// Initialize repositories
	imageRepo := imagedata.NewImageRepo(d.DB)

	var archive imagebiz.ImageArchive
	if d.MinIOClient != nil {
		archive = imagedata.NewMinIOArchive(d.MinIOClient, config.MinIO.Bucket)
	}

	// Initialize use cases
	imageUseCase := imagebiz.NewImageUseCase(generator, imageRepo, archive, log)

	// Initialize services
	imageService := imageservice.NewImageService(imageUseCase, log.Logger)
	searchService := searchservice.NewSearchService(aggregator, log.Logger)

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(config, log.Logger, imageService, searchService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func providerConfig(id searchtypes.ProviderID, creds conf.ProviderCredentials) *searchtypes.ProviderConfig {
	return &searchtypes.ProviderConfig{
		ID:       id,
		APIHost:  creds.APIHost,
		APIKey:   creds.APIKey,
		Login:    creds.Login,
		Password: creds.Password,
	}
}
