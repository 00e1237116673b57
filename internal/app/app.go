package app

import (
	"classlink_backend/internal/config"
	"classlink_backend/internal/controller"
	"classlink_backend/internal/repository"
	"classlink_backend/internal/service"
	"classlink_backend/pkg/database"
	"classlink_backend/pkg/logger"
	"classlink_backend/pkg/monitoring"
	"classlink_backend/pkg/security"
	"classlink_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	relation    *repository.RelationRepository
	linkingCode *repository.LinkingCodeRepository
	classroom   *repository.ClassroomRepository
	syncLog     *repository.SyncLogRepository
	quiz        *repository.QuizRepository
	calendar    *repository.CalendarRepository
	homework    *repository.HomeworkRepository
	message     *repository.MessageRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	storage   *service.StorageService
	directory *service.DirectoryService
	classroom *service.ClassroomService
	rollup    *service.RollupService
	linking   *service.LinkingService
	quiz      *service.QuizService
	calendar  *service.CalendarService
	homework  *service.HomeworkService
	message   *service.MessageService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	rollup    *controller.RollupController
	classroom *controller.ClassroomController
	linking   *controller.LinkingController
	quiz      *controller.QuizController
	calendar  *controller.CalendarController
	homework  *controller.HomeworkController
	message   *controller.MessageController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig swaps in a freshly loaded config and notifies subscribers.
// Only settings read per-request (rollup windows, timeouts, code TTLs)
// take effect; server port and database connections keep their old values.
func (a *App) ReloadConfig(cfg interface{}) {
	newCfg, ok := cfg.(*config.Config)
	if !ok {
		return
	}
	newCfg.ForceMigrate = a.Config.ForceMigrate
	newCfg.MigrateOnly = a.Config.MigrateOnly
	*a.Config = *newCfg
	logger.Log.Info("Configuration reloaded")
	for _, callback := range a.configCallbacks {
		callback(a.Config)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		relation:    repository.NewRelationRepository(db),
		linkingCode: repository.NewLinkingCodeRepository(db),
		classroom:   repository.NewClassroomRepository(db),
		syncLog:     repository.NewSyncLogRepository(db),
		quiz:        repository.NewQuizRepository(db),
		calendar:    repository.NewCalendarRepository(db),
		homework:    repository.NewHomeworkRepository(db),
		message:     repository.NewMessageRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.directory = service.NewDirectoryService(repos.relation, repos.user)
	s.classroom = service.NewClassroomService(repos.classroom, repos.syncLog, cfg)

	aggregator := service.NewChildAggregator(s.classroom, s.classroom)
	s.rollup = service.NewRollupService(s.directory, aggregator, rdb, cfg.Classroom.RollupCacheTTL)

	s.linking = service.NewLinkingService(repos.linkingCode, repos.relation, s.rollup, cfg)

	s.quiz = service.NewQuizService(repos.quiz)
	s.calendar = service.NewCalendarService(repos.calendar)
	s.homework = service.NewHomeworkService(repos.homework)
	s.message = service.NewMessageService(repos.message, repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		user:      controller.NewUserController(s.user, s.storage),
		rollup:    controller.NewRollupController(s.rollup),
		classroom: controller.NewClassroomController(s.classroom),
		linking:   controller.NewLinkingController(s.linking),
		quiz:      controller.NewQuizController(s.quiz),
		calendar:  controller.NewCalendarController(s.calendar),
		homework:  controller.NewHomeworkController(s.homework),
		message:   controller.NewMessageController(s.message),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("classlink-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
