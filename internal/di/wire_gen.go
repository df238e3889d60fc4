// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/foodshareapp/foodshare-backend/internal/app"
	"github.com/foodshareapp/foodshare-backend/internal/config"
	"github.com/foodshareapp/foodshare-backend/internal/http/handler"
	"github.com/foodshareapp/foodshare-backend/internal/http/router"
	"github.com/foodshareapp/foodshare-backend/internal/repository"
	"github.com/foodshareapp/foodshare-backend/internal/service"
)

// Injectors from wire.go:

func InitializeApp() (*app.App, error) {
	configConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	runtime, err := provideObservabilityRuntime(configConfig)
	if err != nil {
		return nil, err
	}
	logger := provideAppLogger(configConfig, runtime)
	jwtManager := provideJWTManager(configConfig)
	tokenService := provideTokenService(configConfig, jwtManager)
	db, err := provideRuntimeDB(configConfig)
	if err != nil {
		return nil, err
	}
	userRepository := repository.NewUserRepository(db)
	authService := service.NewAuthService(configConfig, tokenService, userRepository)
	cookieManager := provideCookieManager(configConfig)
	authHandler := provideAuthHandler(authService, cookieManager, configConfig)
	userService := service.NewUserService(userRepository)
	userHandler := handler.NewUserHandler(userService)
	donationRepository := repository.NewDonationRepository(db)
	minIOStorageService, err := provideStorageService(configConfig)
	if err != nil {
		return nil, err
	}
	donationService := service.NewDonationService(donationRepository, userRepository, minIOStorageService, logger)
	heuristicShelfLifeAnalyzer := service.NewHeuristicShelfLifeAnalyzer()
	donationHandler := handler.NewDonationHandler(donationService, heuristicShelfLifeAnalyzer)
	universalClient := provideRedisClient(configConfig, logger)
	globalRateLimiterFunc := provideGlobalRateLimiter(configConfig, universalClient, jwtManager)
	authRateLimiterFunc := provideAuthRateLimiter(configConfig, universalClient)
	idempotencyMiddlewareFactory := provideIdempotencyFactory(configConfig, universalClient)
	probeRunner := provideReadinessProbeRunner(configConfig, db, universalClient, minIOStorageService)
	dependencies := provideRouterDependencies(authHandler, userHandler, donationHandler, jwtManager, globalRateLimiterFunc, authRateLimiterFunc, idempotencyMiddlewareFactory, probeRunner, configConfig)
	httpHandler := router.NewRouter(dependencies)
	server := provideHTTPServer(configConfig, httpHandler)
	appApp := provideApp(configConfig, logger, server, runtime, db, universalClient, probeRunner)
	return appApp, nil
}

func InitializeMigrationRunner() (*MigrationRunner, error) {
	configConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := provideOpenDB(configConfig)
	if err != nil {
		return nil, err
	}
	migrationRunner := NewMigrationRunner(configConfig, db)
	return migrationRunner, nil
}
