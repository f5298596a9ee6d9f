package bootstrap

import (
	"context"
	"log"

	"food-donation-be/internal/config"
	"food-donation-be/internal/controller"
	"food-donation-be/internal/handler"
	"food-donation-be/internal/pkg/logger"
	"food-donation-be/internal/pkg/mailer"
	"food-donation-be/internal/repository/memory"
	"food-donation-be/internal/repository/unitofwork"
	"food-donation-be/internal/service"
	"food-donation-be/internal/websocket"
	"food-donation-be/pkg/admin/dashboard"
	"food-donation-be/pkg/admin/user"

	pktNats "food-donation-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController          controller.IAuthController
	UserController          controller.IUserController
	AdminController         controller.IAdminController
	FoodCategoryController  controller.ICategoryController
	WasteCategoryController controller.ICategoryController
	DonationController      controller.IDonationController
	WasteController         controller.IWasteController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
	pubSub  *gochannel.GoChannel
}

// NewContainer wires the application. NATS and Redis are optional: an empty
// URL or a failed connection degrades to in-process delivery.
func NewContainer(db *gorm.DB, cfg *config.Config, clock service.Clock) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	var sysLogger, wsLogger logger.ILogger = logger.NewNopLogger(), logger.NewNopLogger()
	if cfg.App.LogFilePath != "" {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	}
	if cfg.App.NotificationLog != "" {
		wsLogger = logger.NewIsolatedLogger(cfg.App.NotificationLog)
	}

	var emailService mailer.IEmailService = mailer.NopEmailService{}
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.ClientURL,
		)
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		if natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
		if natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL); err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Realtime delivery stays local", err)
			rdb.Close()
			rdb = nil
		}
	}

	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	notifService := service.NewNotificationService(uowFactory, wsHub, wsLogger)

	// Only forward to NATS when a subscriber will feed the notifier back.
	var forwarder service.EventForwarder
	if natsPub != nil && natsSub != nil {
		forwarder = natsPub
	}
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Events.Topic,
		forwarder,
		notifService,
		emailService,
		sysLogger,
	)

	categoryService := service.NewCategoryService(uowFactory, memory.NewCategoryCache(0), sysLogger)
	authService := service.NewAuthService(uowFactory, publisherService, sysLogger, service.TokenTTL{
		Access:  cfg.Auth.AccessTokenTTL,
		Refresh: cfg.Auth.RefreshTokenTTL,
	})
	userService := service.NewUserService(uowFactory, sysLogger)
	donationService := service.NewDonationService(uowFactory, publisherService, sysLogger, clock)
	wasteService := service.NewWasteService(uowFactory, categoryService, publisherService, sysLogger, clock)

	// Admin Domain Components
	adminService := service.NewAdminService(
		uowFactory,
		sysLogger,
		user.NewManager(sysLogger),
		dashboard.NewAggregator(sysLogger),
		publisherService,
		clock,
	)

	// 5. Controllers
	return &Container{
		AuthController:          controller.NewAuthController(authService),
		UserController:          controller.NewUserController(userService),
		AdminController:         controller.NewAdminController(adminService),
		FoodCategoryController:  controller.NewFoodCategoryController(categoryService),
		WasteCategoryController: controller.NewWasteCategoryController(categoryService),
		DonationController:      controller.NewDonationController(donationService),
		WasteController:         controller.NewWasteController(wasteService),

		ConsumerService:     consumerService,
		NotificationService: notifService,
		NotificationHandler: handler.NewNotificationHandler(notifService, wsHub, wsLogger),
		WebSocketHub:        wsHub,
		Logger:              sysLogger,

		natsPub: natsPub,
		natsSub: natsSub,
		rdb:     rdb,
		pubSub:  pubSub,
	}
}

// Start launches the hub, the event consumer and, with NATS, the durable
// notification subscriber. They all stop when ctx ends.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	if c.natsPub != nil && c.natsSub != nil {
		if err := c.NotificationService.Start(c.natsSub); err != nil {
			return err
		}
	}
	return nil
}

// Close releases external connections. Call it after the server has stopped.
func (c *Container) Close() {
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close event bus: %v", err)
	}
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		c.rdb.Close()
	}
	c.Logger.Sync()
}
