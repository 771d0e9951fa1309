package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"aromatch/api"
	"aromatch/config"
	"aromatch/database"
	"aromatch/middleware"
	"aromatch/models"
	"aromatch/repository"
	"aromatch/services"

	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize repositories
	questionRepo := repository.NewQuestionRepository()
	perfumeRepo := repository.NewPerfumeRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	quotaRepo := repository.NewQuotaRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	seedData(questionRepo, perfumeRepo)

	// Initialize services
	processor := services.NewQuestionProcessorWithTuning(
		perfumeRepo,
		config.AppConfig.Engine.ReferenceBasePoints,
		config.AppConfig.Engine.MultiPerfumeFactor,
	)
	engine := services.NewRecommendationEngine(processor)
	narrativeService := services.NewNarrativeService(config.AppConfig.OpenAI)
	profileService := services.NewProfileService(engine, profileRepo, narrativeService)
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API handler with all dependencies
	apiHandler := api.NewAPIHandler(
		questionRepo,
		perfumeRepo,
		quotaRepo,
		profileService,
		engine,
	)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.Perfume{},
		&models.UnifiedProfile{},
		&models.GuestQuota{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

// seedData loads the question bank and, when the catalog is empty, a small
// built-in perfume set.
func seedData(questionRepo repository.QuestionRepository, perfumeRepo repository.PerfumeRepository) {
	ctx := context.Background()

	questions := database.DefaultQuestions()
	if path := config.AppConfig.QuestionsFile; path != "" {
		loaded, err := database.LoadQuestions(path)
		if err != nil {
			log.Printf("WARN: [Main] Failed to load question bank from '%s', using built-in defaults: %v", path, err)
		} else {
			questions = loaded
		}
	}
	if err := questionRepo.ReplaceQuestions(questions); err != nil {
		log.Fatalf("FATAL: [Main] Failed to seed question bank: %v", err)
	}
	log.Printf("INFO: [Main] Question bank ready (%d questions).", len(questions))

	existing, err := perfumeRepo.GetAllPerfumes(ctx)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to inspect perfume catalog: %v", err)
	}
	if len(existing) == 0 {
		defaults := database.DefaultPerfumes()
		if err := perfumeRepo.UpsertPerfumes(ctx, defaults); err != nil {
			log.Fatalf("FATAL: [Main] Failed to seed perfume catalog: %v", err)
		}
		log.Printf("INFO: [Main] Seeded perfume catalog with %d starter perfumes.", len(defaults))
	}
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/init", handler.InitHandler)
		apiGroup.GET("/questions", handler.GetQuestionsHandler)

		profileGroup := apiGroup.Group("/profile")
		{
			profileGroup.POST("/calculate", handler.CalculateProfileHandler)
			profileGroup.GET("/user/:userID", handler.GetProfilesForUserHandler)
			profileGroup.GET("/:profileID", handler.GetProfileHandler)
			profileGroup.DELETE("/:profileID", handler.DeleteProfileHandler)
		}

		apiGroup.POST("/recommendations", handler.RecommendationsHandler)
	}
}
