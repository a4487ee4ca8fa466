package bootstrap

import (
	"context"
	"log"
	"os"

	"myjourney-be/internal/config"
	"myjourney-be/internal/controller"
	"myjourney-be/internal/handler"
	"myjourney-be/internal/pkg/logger"
	"myjourney-be/internal/repository/local"
	"myjourney-be/internal/repository/memory"
	"myjourney-be/internal/repository/unitofwork"
	"myjourney-be/internal/service"
	"myjourney-be/internal/websocket"
	"myjourney-be/pkg/localstore"
	"myjourney-be/pkg/narrative/factory"
	"myjourney-be/pkg/speech"
	"myjourney-be/pkg/speech/gemini"

	pktNats "myjourney-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	RideController    controller.IRideController
	SessionController controller.ISessionController
	OAuthController   controller.IOAuthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	RideService     service.IRideService

	// WebSockets
	RideFeedHandler *handler.RideFeedHandler
	WebSocketHub    *websocket.Hub
}

// NewContainer wires the application. db may be nil: the app then runs in
// local-only mode without remote session sync or OAuth accounts.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Printf("[WARN] No database configured, running local-only")
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	localKV := localstore.New(cfg.App.LocalStorePath)
	localSessions := local.NewSessionStore(localKV)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	narrativeProvider, err := factory.NewProvider(
		cfg.Ai.NarrativeProvider,
		cfg.Ai.NarrativeModel,
		cfg.Keys.Mistral,
		cfg.Ai.MistralBaseURL,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize narrative provider: %v", err)
	}
	log.Printf("[INFO] Using narrative provider: %s (%s)", cfg.Ai.NarrativeProvider, cfg.Ai.NarrativeModel)

	var synthesizer speech.Synthesizer
	if cfg.Keys.GoogleGemini != "" {
		synth, err := gemini.NewGeminiSynthesizer(context.Background(), cfg.Keys.GoogleGemini, cfg.Ai.TTSModel, cfg.Ai.TTSVoice)
		if err != nil {
			log.Printf("[WARN] Failed to initialize TTS, chapters ship silent: %v", err)
		} else {
			synthesizer = synth
			log.Printf("[INFO] Using TTS: %s (voice %s)", cfg.Ai.TTSModel, cfg.Ai.TTSVoice)
		}
	} else {
		log.Printf("[WARN] No Gemini API key, narration disabled")
	}

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, feed stays single-instance: %v", err)
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/ride_feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.SyncTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.SyncTopic,
		localSessions,
		uowFactory,
		sysLogger,
	)

	sessionService := service.NewSessionService(localSessions, uowFactory, publisherService, sysLogger)
	storyteller := service.NewStorytellerService(narrativeProvider, synthesizer, sysLogger)
	rideFeed := service.NewRideFeed(wsHub, natsPub, sysLogger)

	rideRepo := memory.NewRideRepository()
	rideService := service.NewRideService(
		rideRepo,
		localSessions,
		uowFactory,
		storyteller,
		sessionService,
		rideFeed,
		natsPub,
		sysLogger,
	)

	// Durable activity worker
	if natsSub != nil {
		notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
		go notifService.Start()
	}

	var oauthController controller.IOAuthController
	switch {
	case uowFactory == nil:
		// Local-only mode has no account store to attach a login to.
	case os.Getenv("GOOGLE_CLIENT_ID") == "" || os.Getenv("GOOGLE_CLIENT_SECRET") == "":
		log.Printf("[WARN] Google OAuth credentials missing, login disabled")
	default:
		oauthService := service.NewOAuthService(uowFactory, sysLogger)
		oauthController = controller.NewOAuthController(oauthService)
	}

	return &Container{
		RideFeedHandler:   handler.NewRideFeedHandler(wsHub, wsLogger),
		WebSocketHub:      wsHub,
		RideController:    controller.NewRideController(rideService),
		SessionController: controller.NewSessionController(sessionService),
		OAuthController:   oauthController,

		ConsumerService: consumerService,
		RideService:     rideService,
	}
}
