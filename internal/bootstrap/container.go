package bootstrap

import (
	"context"
	"time"

	"doccoder-be/internal/config"
	"doccoder-be/internal/controller"
	"doccoder-be/internal/pkg/cache"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/mailer"
	"doccoder-be/internal/repository/unitofwork"
	"doccoder-be/internal/service"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/codec"
	"doccoder-be/pkg/embedding"
	"doccoder-be/pkg/events"
	"doccoder-be/pkg/language"
	"doccoder-be/pkg/llm/registry"
	"doccoder-be/pkg/rag"
	"doccoder-be/pkg/rag/grounded"

	pktNats "doccoder-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const auditDurable = "doccoder-audit"

type Container struct {
	Logger logger.ILogger

	// Controllers
	TransformController controller.ITransformController
	DocumentController  controller.IDocumentController
	ChatController      controller.IChatController
	LanguageController  controller.ILanguageController
	GlossaryController  controller.IGlossaryController
	HealthController    controller.IHealthController

	// Background Services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	EventSubscriber *pktNats.Subscriber

	auditLogger logger.ILogger
	closers     []func()
}

// NewContainer wires every dependency. Redis, NATS, SMTP and embeddings are
// optional and degrade to in-process fallbacks when unset.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	ingestLogger := logger.NewIsolatedLogger(cfg.App.IngestLogFilePath)
	c := &Container{Logger: sysLogger, auditLogger: ingestLogger}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	languages := language.Default()

	models := registry.New(cfg.Key, registry.WithOllamaURL(cfg.Ai.OllamaBaseURL))
	aiService := ai.NewService(models.Provider, sysLogger).WithMaxInput(cfg.Ai.MaxInputChars)

	var extractor codec.PdfTextExtractor = codec.NewPdfcpuExtractor()
	if cfg.Codec.PDFExtractor == "placeholder" {
		extractor = codec.PlaceholderExtractor{}
	}
	reader := codec.NewReader(extractor)
	writers := codec.NewRegistry(codec.RegistryConfig{
		FontPath:    cfg.Codec.PDFFontPath,
		SectionMode: codec.SectionMode(cfg.Codec.SectionMode),
	})

	embedder, err := embedding.NewProvider(cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Key("openai"), cfg.Ai.OllamaBaseURL)
	if err != nil {
		sysLogger.Warn("BOOT", "Embeddings disabled", map[string]interface{}{"error": err.Error()})
	}

	// 2. Infrastructure
	var statsCache cache.Cache
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOT", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			sysLogger.Warn("BOOT", "Redis unreachable, stats cache is in-memory", map[string]interface{}{"error": err.Error()})
			_ = rdb.Close()
		} else {
			statsCache = cache.NewRedisCache(rdb)
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
		cancel()
	}
	if statsCache == nil {
		statsCache = cache.NewMemoryCache(5 * time.Minute)
	}

	var eventPublisher pktNats.EventPublisher = pktNats.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOT", "Failed to connect NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, ingestLogger)
		if err != nil {
			sysLogger.Warn("BOOT", "Failed to connect NATS subscriber", map[string]interface{}{"error": err.Error()})
		} else {
			c.EventSubscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			sysLogger,
		)
	}

	// 3. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 4. Retrieval
	retriever := rag.NewRetriever(embedder, service.NewChunkStore(uowFactory, cfg.Ai.MinSimilarity), sysLogger)
	defaultProvider := registry.Resolve(cfg.Ai.DefaultModel).Provider
	engine := grounded.NewEngine(models.Provider, func() bool { return models.Ready(defaultProvider) }, sysLogger)

	// 5. Services
	publisherService := service.NewPublisherService(service.IngestTopic, pubSub)
	ingestService := service.NewIngestService(uowFactory, reader, embedder, cfg.Ai.ChunkSize, cfg.Ai.ChunkOverlap, ingestLogger)
	consumerService := service.NewConsumerService(pubSub, service.IngestTopic, ingestService, ingestLogger)

	transformService := service.NewTransformService(aiService, reader, writers, languages, cfg.Ai.DefaultModel, cfg.Orchestrator, sysLogger)
	documentService := service.NewDocumentService(
		uowFactory,
		aiService,
		reader,
		languages,
		publisherService,
		eventPublisher,
		emailService,
		statsCache,
		cfg.Ai.DefaultModel,
		cfg.Orchestrator.RequestTimeout,
		sysLogger,
	)
	glossaryService := service.NewGlossaryService(uowFactory, languages)
	chatService := service.NewChatService(uowFactory, retriever, engine, aiService, glossaryService, languages, cfg.Ai.DefaultModel, sysLogger)
	languageService := service.NewLanguageService(aiService, languages, cfg.Ai.DefaultModel)
	healthService := service.NewHealthService(db, models.Readiness)

	// 6. Controllers
	c.TransformController = controller.NewTransformController(transformService, sysLogger)
	c.DocumentController = controller.NewDocumentController(documentService, ingestService)
	c.ChatController = controller.NewChatController(chatService)
	c.LanguageController = controller.NewLanguageController(languageService)
	c.GlossaryController = controller.NewGlossaryController(glossaryService)
	c.HealthController = controller.NewHealthController(healthService)
	c.ConsumerService = consumerService

	return c
}

// StartAudit records every document lifecycle event in the ingestion log.
// It is a no-op without NATS.
func (c *Container) StartAudit(ctx context.Context) error {
	if c.EventSubscriber == nil {
		return nil
	}
	return c.EventSubscriber.Subscribe(ctx, pktNats.SubjectPrefix+".>", auditDurable, func(_ context.Context, event events.Event) error {
		c.auditLogger.Info("AUDIT", event.EventType(), event.Payload())
		return nil
	})
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.auditLogger.Sync()
	_ = c.Logger.Sync()
}
