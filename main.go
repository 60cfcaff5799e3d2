package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicedesk/config"
	"voicedesk/database"
	archiveRepo "voicedesk/database/repository/archive"
	"voicedesk/handlers"
	"voicedesk/middleware"
	"voicedesk/models"
	"voicedesk/routes"
	"voicedesk/services/fallback"
	"voicedesk/services/knowledge"
	"voicedesk/services/notification"
	"voicedesk/services/order"
	"voicedesk/services/session"
	"voicedesk/services/speech"
	"voicedesk/services/tasks"
	"voicedesk/services/validation"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	utils.InitCache()
	utils.InitSessionCache()

	ctx := context.Background()
	orderType := models.OrderType(config.AppConfig.OrderType)
	systemPrompt := session.SystemPrompt(orderType)
	timeout := config.ProviderTimeout()

	// Optional durable archive for confirmed bookings.
	var mongoClient *mongo.Client
	var archive order.Archive
	if url := config.AppConfig.DatabaseURL; url != "" {
		client, err := database.Connect(url)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
		}
		mongoClient = client
		archive = archiveRepo.NewMongoArchive(client, config.AppConfig.DatabaseName)
	}

	store := order.NewMemoryStore(
		config.AppConfig.BookingIDPrefix,
		config.AppConfig.BookingCounterStart,
		logger,
	)
	if archive != nil {
		store = store.WithArchive(archive)
	}

	notifier := notification.NewAsynqNotifier(tasks.RedisOpt(), logger)
	worker := tasks.StartWorker(logger)

	// Speech-to-text providers, in fallback order.
	var sttProviders []fallback.Provider
	if file := config.AppConfig.GoogleServiceAccountFile; file != "" {
		stt, err := speech.NewGoogleSTT(ctx, file, config.AppConfig.SpeechLanguage)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Google STT: %v", err)
		}
		defer stt.Close()
		sttProviders = append(sttProviders, stt.Provider(0))
	}

	var deepgram *speech.DeepgramClient
	if key := config.AppConfig.DeepgramAPIKey; key != "" {
		deepgram = speech.NewDeepgramClient(key)
		sttProviders = append(sttProviders, deepgram.STTProvider(1))
	}

	// LLM providers.
	var llmProviders []fallback.Provider
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gemini, err := speech.NewGeminiLLM(ctx, key, systemPrompt)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Gemini: %v", err)
		}
		llmProviders = append(llmProviders, gemini.Provider(0))
	}
	if key := config.AppConfig.GroqAPIKey; key != "" {
		llmProviders = append(llmProviders, speech.NewGroqLLM(key, systemPrompt).Provider(1))
	}

	// Text-to-speech providers.
	var ttsProviders []fallback.Provider
	if file := config.AppConfig.GoogleServiceAccountFile; file != "" {
		tts, err := speech.NewGoogleTTS(ctx, file, config.AppConfig.SpeechLanguage)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Google TTS: %v", err)
		}
		ttsProviders = append(ttsProviders, tts.Provider(0))
	}
	if deepgram != nil {
		ttsProviders = append(ttsProviders, deepgram.TTSProvider(1))
	}

	// Knowledge retrieval, answer-cached in Redis.
	var knowledgeProviders []fallback.Provider
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		answerer, err := knowledge.NewGeminiAnswerer(ctx, key, config.AppConfig.KnowledgeDir, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize knowledge base: %v", err)
		}
		cached := knowledge.NewCachedGateway(answerer, utils.GetCacheClient(), time.Hour, logger)
		knowledgeProviders = append(knowledgeProviders, knowledge.AsProvider("gemini-kb", 0, cached))
	}

	for capability, count := range map[fallback.Capability]int{
		fallback.CapabilitySTT:       len(sttProviders),
		fallback.CapabilityLLM:       len(llmProviders),
		fallback.CapabilityTTS:       len(ttsProviders),
		fallback.CapabilityKnowledge: len(knowledgeProviders),
	} {
		if count == 0 {
			logger.Warn("no providers configured for capability; every request to it will degrade",
				zap.String("capability", string(capability)))
		}
	}

	sttPool := fallback.NewPool(fallback.CapabilitySTT, timeout, logger, sttProviders...)
	llmPool := fallback.NewPool(fallback.CapabilityLLM, timeout, logger, llmProviders...)
	ttsPool := fallback.NewPool(fallback.CapabilityTTS, timeout, logger, ttsProviders...)
	knowledgePool := fallback.NewPool(fallback.CapabilityKnowledge, timeout, logger, knowledgeProviders...)

	registry := session.NewRegistry(session.RegistryConfig{
		OrderType:   orderType,
		PhonePolicy: validation.PhonePolicy(config.AppConfig.PhonePolicy),
		Hours:       config.Hours(),
		Store:       store,
		Notifier:    notifier,
		Gateway:     &knowledge.PoolGateway{Pool: knowledgePool},
		STTPool:     sttPool,
		LLMPool:     llmPool,
		TTSPool:     ttsPool,
		Cache:       utils.GetSessionCacheClient(),
		TTL:         config.SessionTTL(),
		Logger:      logger,
	})
	registry.StartJanitor(time.Minute)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()},
		mongoClient,
		[]*fallback.Pool{sttPool, llmPool, ttsPool, knowledgePool},
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	sessionHandler := handlers.NewSessionHandler(registry, logger)
	bookingHandler := handlers.NewBookingHandler(store, archive)

	routes.RegisterRoutes(router, &routes.HandlerBundle{
		SessionHandler: sessionHandler,
		BookingHandler: bookingHandler,
		HealthHandler:  handlers.HealthHandler(registry),
	})

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	worker.Shutdown()
	if err := notifier.Close(); err != nil {
		logger.Warn("failed to close task client", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
