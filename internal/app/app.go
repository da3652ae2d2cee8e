package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tush00nka/dream_homes/internal/config"
	"tush00nka/dream_homes/internal/handler"
	"tush00nka/dream_homes/internal/pkg/auth"
	"tush00nka/dream_homes/internal/repository"
	"tush00nka/dream_homes/internal/service"
	"tush00nka/dream_homes/internal/ws"
)

type dbHealth struct {
	db *gorm.DB
}

func (h dbHealth) HealthCheck(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type redisHealth struct {
	rdb *redis.Client
}

func (h redisHealth) HealthCheck(ctx context.Context) error {
	return h.rdb.Ping(ctx).Err()
}

// Migrate creates or updates the schema and exits.
func Migrate(cfg *config.Config) error {
	db, err := repository.NewDB(cfg.DSN())
	if err != nil {
		return err
	}
	return repository.Migrate(db)
}

func Run(cfg *config.Config) error {
	ctx := context.Background()

	if cfg.JWTKey != "" {
		auth.SetKey(cfg.JWTKey)
	}

	db, err := repository.NewDB(cfg.DSN())
	if err != nil {
		return err
	}

	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	checks := map[string]handler.HealthChecker{"database": dbHealth{db: db}}

	var cache repository.PropertyCacheRepository
	if cfg.RedisAddr != "" {
		rdb, err := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Redis unavailable, listing cache disabled: %v", err)
		} else {
			cache = repository.NewPropertyCacheRepository(rdb)
			checks["redis"] = redisHealth{rdb: rdb}
		}
	}

	var images service.ImageStorage
	if cfg.S3BucketName != "" {
		s3Service, err := service.NewS3Service(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to init image storage: %w", err)
		}
		images = s3Service
		checks["s3"] = s3Service
	} else {
		log.Println("S3_BUCKET_NAME is not set, image uploads are disabled")
	}

	sessions := auth.NewSessionStore(cfg.SessionKey)
	hub := ws.NewHub()

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	userService := service.NewUserService(userRepo)
	propertyService := service.NewPropertyService(propertyRepo, cache, images, cfg.CacheTTL)
	messageService := service.NewMessageService(messageRepo, hub)

	server := NewServer(
		ServerOptions{
			Sessions:       sessions,
			AllowedOrigins: cfg.AllowedOrigins(),
			Health:         handler.Health(checks),
		},
		handler.NewUserHandler(userService, sessions),
		handler.NewPropertyHandler(propertyService),
		handler.NewMessageHandler(messageService, hub, ws.NewUpgrader(cfg.AllowedOrigins()), sessions),
	)

	err = server.Run(cfg.ServerPort)
	hub.Shutdown()

	if sqlDB, dbErr := db.DB(); dbErr == nil {
		sqlDB.Close()
	}

	return err
}
