package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/sous/internal/adapter/catalog"
	"github.com/YelzhanWeb/sous/internal/adapter/clock"
	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/adapter/postgres"
	"github.com/YelzhanWeb/sous/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/sous/internal/app/chat"
	"github.com/YelzhanWeb/sous/internal/app/notify"
	"github.com/YelzhanWeb/sous/internal/app/tracking"
	"github.com/YelzhanWeb/sous/internal/config"
	"github.com/YelzhanWeb/sous/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/sous/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/sous/internal/adapter/http"
)

const (
	shutdownTimeout = 10 * time.Second
	reconnectDelay  = 5 * time.Second
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "chat-service", "Service mode: chat-service, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Service.Port = *port
	}

	// Initialize logger
	lgr := logger.New(fmt.Sprintf("%s/%s", cfg.Service.Name, *mode), cfg.Service.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "chat-service":
		err = runChatService(ctx, cfg, lgr)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, lgr)
	default:
		err = fmt.Errorf("invalid mode: %s", *mode)
	}

	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "shutdown", nil, err)
		os.Exit(1)
	}
}

func runChatService(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// Optional sinks: a nil sink is skipped by the notifier
	var (
		journal   interfaces.OrderJournal
		publisher interfaces.OrderEventPublisher
	)

	if cfg.Database.Enabled {
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		journal = postgres.NewOrderJournal(db)

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer mqConn.Close()

		publisher = rabbitmq.NewPublisher(mqConn)

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host":     cfg.RabbitMQ.Host,
			"exchange": rabbitmq.NotificationsExchange,
		})
	}

	notifier := notify.NewService(publisher, journal, lgr, 0)
	notifier.Start(context.Background())

	plan := cfg.Lifecycle.Plan()
	chatService := chat.NewService(cat, cat, clock.NewReal(), notifier, lgr, chat.Options{
		Language: cfg.Service.Language(),
		Mode:     cfg.Service.Mode(),
		Delays: chat.Delays{
			Reply:          cfg.Chat.ReplyDelay,
			Dishes:         cfg.Chat.DishesDelay,
			NextCategories: cfg.Chat.NextCategoriesDelay,
			Recommendation: cfg.Chat.RecommendationDelay,
			Question:       cfg.Chat.QuestionDelay,
			Text:           cfg.Chat.TextDelay,
		},
		Lifecycle:           plan,
		RecommendationCount: cfg.Chat.RecommendationCount,
		NextCategoryCount:   cfg.Chat.NextCategoryCount,
		UpsellCount:         cfg.Chat.UpsellCount,
	})
	trackingService := tracking.NewService(cat, plan, journal, lgr)

	chatHandler := httpAdapter.NewChatHandler(chatService, trackingService, lgr, cfg.Service.BaseURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:      httpAdapter.NewRouter(chatHandler, lgr, cfg.Service.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Chat Service started on port %d", cfg.Service.Port), "startup", map[string]interface{}{
		"port":      cfg.Service.Port,
		"language":  cfg.Service.DefaultLanguage,
		"mode":      cfg.Service.DefaultMode,
		"journal":   journal != nil,
		"publisher": publisher != nil,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			chatService.Close()
			notifier.Shutdown(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
	}

	lgr.Info("shutdown_initiated", "Shutting down Chat Service", "shutdown", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lgr.Error("shutdown_error", "Error during HTTP shutdown", "shutdown", nil, err)
	}

	// Сначала таймеры чата, затем доставка оставшихся событий
	chatService.Close()
	if err := notifier.Shutdown(shutdownCtx); err != nil {
		lgr.Error("shutdown_error", "Error draining notifications", "shutdown", nil, err)
	}

	lgr.Info("graceful_shutdown", "Chat Service stopped", "shutdown", nil)
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	// Initialize consumer and handler
	consumer := rabbitmq.NewConsumer(mqConn, lgr, reconnectDelay)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"exchange": rabbitmq.NotificationsExchange,
	})

	err = consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification)

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("error consuming notifications: %w", err)
	}
	return nil
}
