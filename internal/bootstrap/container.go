package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"avatar-trainer-be/internal/config"
	"avatar-trainer-be/internal/controller"
	"avatar-trainer-be/internal/pkg/logger"
	"avatar-trainer-be/internal/pkg/mailer"
	"avatar-trainer-be/internal/repository/implementation"
	"avatar-trainer-be/internal/repository/memory"
	"avatar-trainer-be/internal/repository/unitofwork"
	"avatar-trainer-be/internal/service"
	"avatar-trainer-be/pkg/dialogue"
	"avatar-trainer-be/pkg/llm/factory"
	"avatar-trainer-be/pkg/moderation"
	pktNats "avatar-trainer-be/pkg/nats"
	"avatar-trainer-be/pkg/scenario"
	"avatar-trainer-be/pkg/scoring"
)

const warmupTopic = "index.warmup"

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	AdminController   controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(pubSub, warmupTopic)

	// NATS is best-effort: the trainer keeps working without a broker.
	var eventPublisher service.IEventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// 3. Dialogue brain
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	if !cfg.Ai.UseLLM {
		llmProvider = nil
	}
	if llmProvider != nil {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	} else {
		log.Printf("[INFO] LLM disabled, deterministic dialogue only")
	}

	indexCache := memory.NewIndexCache()
	knowledgeService := service.NewKnowledgeService(uowFactory, indexCache, publisherService, eventPublisher, sysLogger)
	consumerService := service.NewConsumerService(pubSub, warmupTopic, knowledgeService, sysLogger)

	archetypeRepo := implementation.NewArchetypeRepository(db)
	detector := moderation.NewDetector(moderation.DefaultRuleTable())
	planner := scenario.NewPlanner(archetypeRepo, knowledgeService, llmProvider, cfg.Session.GenerationTimeout, sysLogger)
	evaluator := scoring.NewEvaluator(detector, knowledgeService, scoring.DefaultRuleTable(), sysLogger)
	generator := dialogue.NewGenerator(archetypeRepo, llmProvider, cfg.Session.GenerationTimeout, sysLogger)

	// 4. Services
	sessionService := service.NewSessionService(
		uowFactory,
		planner,
		evaluator,
		detector,
		generator,
		eventPublisher,
		emailService,
		service.SessionConfig{
			TrainingSteps: cfg.Session.TrainingSteps,
			ExamSteps:     cfg.Session.ExamSteps,
			AdminEmail:    cfg.Admin.Email,
			BaseURL:       cfg.App.BaseURL,
		},
		sysLogger,
	)

	adminService := service.NewAdminService(
		uowFactory,
		service.AdminConfig{
			Email:        cfg.Admin.Email,
			PasswordHash: cfg.Admin.PasswordHash,
			JWTSecret:    cfg.Admin.JWTSecret,
		},
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		AdminController:   controller.NewAdminController(adminService, knowledgeService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
