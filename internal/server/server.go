package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boardhub/internal/config"
	"boardhub/internal/handler"
	"boardhub/internal/middleware"
	"boardhub/internal/repository"
	"boardhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	txManager := repository.NewGormTransactionManager(db)

	// Initialize services
	boardService := service.NewBoardService(boardRepo, memberRepo, txManager)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, userService, cfg.JWTSecret)
	boardHandler := handler.NewBoardHandler(boardService)
	memberHandler := handler.NewMemberHandler(boardService)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		authorized.GET("/users/me", userHandler.Me)
		authorized.GET("/users/:id/boards", boardHandler.GetUserBoards)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Membership routes
		authorized.GET("/boards/:id/members", memberHandler.List)
		authorized.POST("/boards/:id/members", memberHandler.Add)
		authorized.PUT("/boards/:id/members/:user_id", memberHandler.UpdateRole)
		authorized.DELETE("/boards/:id/members/:user_id", memberHandler.Remove)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(db *gorm.DB, path string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
