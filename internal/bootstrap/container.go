package bootstrap

import (
	"log"
	"time"

	"boardgame-rules-be/internal/config"
	"boardgame-rules-be/internal/controller"
	"boardgame-rules-be/internal/pkg/logger"
	"boardgame-rules-be/internal/repository/unitofwork"
	"boardgame-rules-be/internal/service"
	"boardgame-rules-be/pkg/embedding"
	"boardgame-rules-be/pkg/llm/factory"
	pktNats "boardgame-rules-be/pkg/nats"
	"boardgame-rules-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	GameController      controller.IGameController
	HouseRuleController controller.IHouseRuleController
	ChatController      controller.IChatController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding provider per config, wrapped with retry and a query cache.
	var embeddingProvider embedding.EmbeddingProvider
	embeddingModel := cfg.Ai.OllamaModel
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		embeddingModel = "text-embedding-004"
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embeddingProvider = embedding.NewRetryingProvider(embeddingProvider)
	embeddingProvider = embedding.NewCachedProvider(embeddingProvider, 15*time.Minute)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. NATS event publisher, best-effort
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.EmbedTopicName)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopicName,
		uowFactory,
		embeddingProvider,
		embeddingModel,
		sysLogger,
	)

	searcher := search.NewOrchestrator(embeddingProvider, cfg.Chat.SimilarityThreshold, sysLogger)

	gameService := service.NewGameService(uowFactory, natsPub, sysLogger)
	ingestService := service.NewIngestService(
		uowFactory,
		embeddingProvider,
		natsPub,
		cfg.App.UploadDir,
		embeddingModel,
		sysLogger,
	)
	houseRuleService := service.NewHouseRuleService(uowFactory, publisherService, natsPub, sysLogger)
	chatService := service.NewChatService(uowFactory, llmProvider, searcher, cfg.Chat.ContextChunks, sysLogger)

	// 6. Controllers
	gameController := controller.NewGameController(gameService, ingestService)
	houseRuleController := controller.NewHouseRuleController(houseRuleService)
	chatController := controller.NewChatController(chatService)

	return &Container{
		GameController:      gameController,
		HouseRuleController: houseRuleController,
		ChatController:      chatController,
		ConsumerService:     consumerService,
		Logger:              sysLogger,
	}
}
