package main

import (
	"context"

	authhandler "escapedia/internal/auth/handler"
	authservice "escapedia/internal/auth/service"
	authvalidator "escapedia/internal/auth/validator"
	bookinghandler "escapedia/internal/bookings/handler"
	bookingservice "escapedia/internal/bookings/service"
	"escapedia/internal/events"
	"escapedia/internal/guard"
	localhandler "escapedia/internal/locales/handler"
	localservice "escapedia/internal/locales/service"
	localvalidator "escapedia/internal/locales/validator"
	reviewhandler "escapedia/internal/reviews/handler"
	reviewservice "escapedia/internal/reviews/service"
	reviewvalidator "escapedia/internal/reviews/validator"
	roomhandler "escapedia/internal/rooms/handler"
	roomservice "escapedia/internal/rooms/service"
	roomvalidator "escapedia/internal/rooms/validator"
	"escapedia/internal/session"
	"escapedia/internal/web"
	"escapedia/pkg/app"
	"escapedia/pkg/config"
	"escapedia/pkg/contracts"
	"escapedia/pkg/kafka"
	kafka_config "escapedia/pkg/kafka/config"
	kafka_middleware "escapedia/pkg/kafka/middleware"
	"escapedia/pkg/sealer"

	"github.com/joho/godotenv"
)

const ServiceName = "escapedia-web"

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Escapedia web")

	serverApp := app.NewApplication(cfg)
	publisher, eventStats := initEvents(cfg, serverApp)

	s, err := sealer.New(cfg.SessionSecret)
	if err != nil {
		cfg.Log.Fatal("Invalid session secret", "error", err)
	}
	sessions := session.NewManager(cfg.SessionCookieName, cfg.SessionCookieSecure, s)
	resolver := session.NewResolver(sessions, cfg.Client.Auth, cfg.Log)

	renderer, err := web.New(cfg.Location, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to parse templates", "error", err)
	}
	g := guard.New(renderer.Placeholder())

	pages := initHandlers(cfg, publisher, renderer, sessions, g)

	api := app.PingFunc(func(ctx context.Context) error {
		_, err := cfg.Client.Locales.Public(ctx)
		return err
	})
	serverApp.SetApp(app.NewHealthHandler(api, eventStats, cfg.Log), resolver.Middleware, pages...)
	serverApp.Run()
}

// initEvents connects the activity producer when brokers are configured.
func initEvents(cfg *config.Config, serverApp *app.Application) (events.Publisher, func() map[string]int64) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka brokers not configured, activity events disabled")
		return events.Nop{}, nil
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaActivityTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := &kafka_middleware.Metrics{}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics))
	serverApp.OnShutdown(producer)

	cfg.Log.Info("Activity events enabled", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, cfg.Log), metrics.Snapshot
}

func initHandlers(cfg *config.Config, pub events.Publisher, renderer *web.Renderer, sessions *session.Manager, g *guard.Guard) []contracts.Handler {
	c := cfg.Client

	rooms := roomservice.NewRoomService(c.Rooms, c.Reviews, c.Locales, c.Upload, roomvalidator.NewRoomValidator(cfg.Log), pub, cfg.CatalogPageSize, cfg.Log)
	bookings := bookingservice.NewBookingService(c.Rooms, c.Bookings, pub, cfg.Location, cfg.Log)
	owner := bookingservice.NewOwnerService(c.Bookings, pub, cfg.Log)
	locales := localservice.NewLocalService(c.Locales, c.Users, localvalidator.NewLocalValidator(cfg.Log), pub, cfg.Log)
	auth := authservice.NewAuthService(c.Auth, c.Trophies, c.Reviews, authvalidator.NewAuthValidator(cfg.Log), cfg.Log)
	reviews := reviewservice.NewReviewService(c.Reviews, c.Rooms, reviewvalidator.NewReviewValidator(cfg.Log), pub, cfg.Log)

	bookingPages := bookinghandler.NewBookingHandler(bookings, owner, rooms, renderer, sessions, g, cfg.Log)

	return []contracts.Handler{
		roomhandler.NewRoomHandler(rooms, renderer, sessions, g, bookingPages, cfg.Log),
		bookingPages,
		localhandler.NewLocalHandler(locales, renderer, sessions, g, cfg.Log),
		authhandler.NewAuthHandler(auth, renderer, sessions, g, cfg.Log),
		reviewhandler.NewReviewHandler(reviews, renderer, sessions, g, cfg.Log),
	}
}
