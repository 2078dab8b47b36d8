package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"icehc_portal/internal/config"
	"icehc_portal/internal/controller"
	"icehc_portal/internal/repository"
	"icehc_portal/internal/service"
	"icehc_portal/pkg/database"
	"icehc_portal/pkg/logger"
	"icehc_portal/pkg/monitoring"
	"icehc_portal/pkg/security"
	"icehc_portal/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider
}

type repositories struct {
	member       *repository.MemberRepository
	challenge    *repository.ChallengeRepository
	submission   *repository.SubmissionRepository
	announcement *repository.AnnouncementRepository
	event        *repository.EventRepository
	document     *repository.DocumentRepository
	chat         *repository.ChatRepository
	notification *repository.NotificationRepository
}

type services struct {
	auth         *service.AuthService
	member       *service.MemberService
	challenge    *service.ChallengeService
	scoring      *service.ScoringService
	announcement *service.AnnouncementService
	event        *service.EventService
	document     *service.DocumentService
	storage      *service.StorageService
	chat         *service.ChatService
	notification *service.NotificationService
	dmHub        *service.DMHub
}

type controllers struct {
	auth         *controller.AuthController
	member       *controller.MemberController
	challenge    *controller.ChallengeController
	scoring      *controller.ScoringController
	leaderboard  *controller.LeaderboardController
	announcement *controller.AnnouncementController
	event        *controller.EventController
	document     *controller.DocumentController
	chat         *controller.ChatController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		member:       repository.NewMemberRepository(db),
		challenge:    repository.NewChallengeRepository(db),
		submission:   repository.NewSubmissionRepository(db),
		announcement: repository.NewAnnouncementRepository(db),
		event:        repository.NewEventRepository(db),
		document:     repository.NewDocumentRepository(db),
		chat:         repository.NewChatRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.member, cfg)
	s.member = service.NewMemberService(repos.member, repos.submission)

	s.dmHub = service.NewDMHub(rdb, repos.chat)
	go s.dmHub.Run()

	s.notification = service.NewNotificationService(repos.notification, repos.member, s.dmHub)
	s.challenge = service.NewChallengeService(repos.challenge, repos.submission)
	s.scoring = service.NewScoringService(db, repos.member, repos.challenge, repos.submission, s.notification)
	s.announcement = service.NewAnnouncementService(repos.announcement, s.notification)
	s.event = service.NewEventService(repos.event, s.notification)
	s.document = service.NewDocumentService(repos.document, s.storage)
	s.chat = service.NewChatService(repos.chat, repos.member, s.dmHub)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		member:       controller.NewMemberController(s.member),
		challenge:    controller.NewChallengeController(s.challenge),
		scoring:      controller.NewScoringController(s.scoring),
		leaderboard:  controller.NewLeaderboardController(s.member),
		announcement: controller.NewAnnouncementController(s.announcement),
		event:        controller.NewEventController(s.event),
		document:     controller.NewDocumentController(s.document),
		chat:         controller.NewChatController(s.chat, s.dmHub),
		notification: controller.NewNotificationController(s.notification),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the periodic jobs: the solve feed stays bounded.
func (a *App) startBackgroundTasks(repos *repositories) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		for range ticker.C {
			if err := repos.submission.TrimFeed(500); err != nil {
				logger.Log.Error("solve feed trim error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("icehc-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(repos)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.dmHub != nil {
		a.services.dmHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
