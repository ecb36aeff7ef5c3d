package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcast-backend/advisor"
	"fitcast-backend/cache"
	"fitcast-backend/config"
	"fitcast-backend/handlers"
	"fitcast-backend/middleware"
	"fitcast-backend/outfit"
	"fitcast-backend/repository"
	"fitcast-backend/service"
	"fitcast-backend/storage"
	"fitcast-backend/weather"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	cfg.SetupLogger()

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	// Initialize database connections
	db, err := initPostgres(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize Postgres")
	}
	defer db.Close()

	// Initialize storage
	avatarStorage, err := storage.NewStorage(storage.StorageConfig{
		Type:         storage.StorageType(cfg.StorageType),
		LocalPath:    cfg.StorageLocalPath,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.AWSRegion,
		S3Endpoint:   cfg.S3Endpoint,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}
	logrus.WithField("type", cfg.StorageType).Info("Storage initialized")

	rules := outfit.DefaultRules()
	if cfg.RulesFile != "" {
		rules, err = outfit.LoadRules(cfg.RulesFile)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load outfit rules")
		}
		logrus.WithField("path", cfg.RulesFile).Info("Outfit rules loaded")
	}

	// Initialize weather provider, cached in Redis when configured
	weatherOpts := []weather.ClientOption{weather.WithBaseURL(cfg.OpenWeatherBaseURL)}
	redisClient := initRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
		weatherOpts = append(weatherOpts, weather.WithCache(cache.NewRedisCache(redisClient, "fitcast"), cfg.WeatherCacheTTL))
	}
	if cfg.OpenWeatherAPIKey == "" {
		logrus.Warn("OPENWEATHER_API_KEY not set, weather requests will fail")
	}
	weatherClient := weather.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, weatherOpts...)

	// Initialize Gemini client
	geminiClient := initGemini(cfg.GeminiAPIKey)
	if geminiClient != nil {
		defer geminiClient.Close()
	}
	var generator advisor.Generator
	if geminiClient != nil {
		generator = advisor.NewGeminiGenerator(geminiClient, cfg.GeminiModel)
	}
	textAdvisor := advisor.New(generator, advisor.WithRatePerMinute(cfg.AdvisorRatePerMinute))

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	preferencesRepo := repository.NewPreferencesRepository(db)
	planRepo := repository.NewPackingPlanRepository(db)

	// Initialize services
	fitcastService := service.NewFitcastService(
		service.FitcastWithWeatherProvider(weatherClient),
		service.FitcastWithAdvisor(textAdvisor),
		service.FitcastWithProfileStore(profileRepo),
		service.FitcastWithPreferencesStore(preferencesRepo),
		service.FitcastWithRules(rules),
		service.FitcastWithDefaultLocation(cfg.DefaultLocation),
	)

	profileService := service.NewProfileService(
		service.ProfileWithProfileStore(profileRepo),
		service.ProfileWithPreferencesStore(preferencesRepo),
		service.ProfileWithStorage(avatarStorage),
	)

	packingService := service.NewPackingService(
		service.PackingWithPlanStore(planRepo),
		service.PackingWithPreferencesStore(preferencesRepo),
		service.PackingWithWeatherProvider(weatherClient),
		service.PackingWithAdvisor(textAdvisor),
		service.PackingWithRules(rules),
	)

	// Setup Gin router
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = service.MaxAvatarSize

	handlers.Router{
		Fitcast: handlers.NewFitcastHandler(fitcastService),
		Profile: handlers.NewProfileHandler(profileService),
		Packing: handlers.NewPackingHandler(packingService),
	}.Register(r, middleware.JWTAuth(cfg.JWTSecret))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logrus.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-stop
	logrus.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}

	// let in-flight packing plans finish before the pool closes
	packingService.Wait()
	logrus.Info("Shutdown complete")
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logrus.Info("Postgres connection established")
	return pool, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logrus.Info("REDIS_ADDR not set, weather cache disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, weather cache disabled")
		return nil
	}

	logrus.WithField("addr", cfg.RedisAddr).Info("Redis connection established")
	return client
}

func initGemini(apiKey string) *genai.Client {
	if apiKey == "" {
		logrus.Warn("GEMINI_API_KEY not set, recommendations use the rule table only")
		return nil
	}

	client, err := advisor.NewGeminiClient(context.Background(), apiKey)
	if err != nil {
		logrus.WithError(err).Warn("Failed to initialize Gemini, recommendations use the rule table only")
		return nil
	}

	logrus.Info("Gemini client initialized")
	return client
}
