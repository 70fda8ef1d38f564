package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/cache"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/storage"
	"app/internal/ratelimit"
	"app/internal/server"
	"app/internal/session"
	"app/internal/token"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envが無い環境（本番）では環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		//設定不備は起動ごと止める
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Teaching{},
		&model.Event{},
		&model.Media{},
		&model.Quote{},
		&model.AuditLog{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserRepository(gormDB)
	sessionRepo := infraRepo.NewSessionRepository(gormDB)
	teachingRepo := infraRepo.NewTeachingRepository(gormDB)
	eventRepo := infraRepo.NewEventRepository(gormDB)
	mediaRepo := infraRepo.NewMediaRepository(gormDB)
	quoteRepo := infraRepo.NewQuoteRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}

	codec := token.NewCodec([]byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.NearExpiry, clock)
	store := session.NewStore(sessionRepo, codec, clock)

	limiter := ratelimit.NewLimiter(clock)
	limiter.StartSweeper(cfg.RateLimitSweep)
	defer limiter.Stop()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, store, codec, validator.NewAuthValidator(userRepo), clock)

	//キャッシュ（Redis未設定なら無しで動く）
	teachingUC := usecase.NewTeachingUsecase(teachingRepo, txm, nil, clock)
	quoteUC := usecase.NewQuoteUsecase(quoteRepo, nil, clock)
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			panic(err)
		}
		teachingUC = usecase.NewTeachingUsecase(teachingRepo, txm, redisCache, clock)
		quoteUC = usecase.NewQuoteUsecase(quoteRepo, redisCache, clock)
	}

	eventUC := usecase.NewEventUsecase(eventRepo, txm, clock)
	searchUC := usecase.NewSearchUsecase(teachingRepo, eventRepo)

	//ストレージ（未設定ならメディアの署名付きURLは503）
	var mediaStorage usecase.MediaStorage
	if cfg.S3Bucket != "" {
		s3c, err := storage.NewS3Client(context.Background(), storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			panic(err)
		}
		mediaStorage = s3c
	}
	mediaUC := usecase.NewMediaUsecase(mediaRepo, txm, mediaStorage, storage.NewStorageKey, clock)

	//Handler生成
	e := server.New(server.Deps{
		Store:   store,
		Limiter: limiter,
		FEURL:   cfg.FEURL,

		Auth:          handler.NewAuthHandler(authUC),
		Teachings:     handler.NewTeachingHandler(teachingUC),
		Events:        handler.NewEventHandler(eventUC),
		Media:         handler.NewMediaHandler(mediaUC),
		Search:        handler.NewSearchHandler(searchUC),
		Quotes:        handler.NewQuoteHandler(quoteUC),
		AdminTeaching: handler.NewAdminTeachingHandler(teachingUC),
		AdminEvent:    handler.NewAdminEventHandler(eventUC),
		AdminMedia:    handler.NewAdminMediaHandler(mediaUC),
	})

	//Server起動
	go func() {
		if err := server.Start(e, ":"+cfg.Port); err != nil {
			e.Logger.Info("server stopped: ", err)
		}
	}()

	//SIGINT/SIGTERMで猶予付き停止
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx, e); err != nil {
		panic(err)
	}
}
