package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fortuneblock/application"
	"fortuneblock/bot"
	"fortuneblock/config"
	"fortuneblock/database"
	"fortuneblock/domain/interfaces"
	"fortuneblock/domain/services"
	"fortuneblock/events"
	"fortuneblock/infrastructure"
	"fortuneblock/infrastructure/observability"
	"fortuneblock/server"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sync worker, Discord bot and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context())
		},
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting fortuneblock...")

	// Load configuration
	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), cfg.DatabasePool())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event transport
	publisher, subscriber, closeEvents, err := newEventTransport(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEvents()

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, observability.Config{
		Enabled:        cfg.OTelEnabled,
		ExporterType:   cfg.OTelExporterType,
		OTLPEndpoint:   cfg.OTelOTLPEndpoint,
		ServiceName:    eventSource,
		Environment:    cfg.Environment,
		ExportInterval: cfg.OTelExportInterval,
	}); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if err := observability.RegisterEventMetrics(subscriber, observability.GetMetrics()); err != nil {
		return fmt.Errorf("failed to register event metrics: %w", err)
	}

	// Connect to the contract
	log.Infof("Connecting to chain at %s...", cfg.RPCURL)
	chain, err := dialChain(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer chain.Close()
	if _, ok := chain.client.Account(); !ok {
		log.Warn("No signing key configured, deposits and registrations are disabled")
	}

	// Initialize services
	lotteryService := services.NewLotteryService(chain.client, publisher)
	profileService := services.NewProfileService(chain.client, publisher)
	profiles := application.NewProfileLookup(profileService, uowFactory)

	if err := application.RegisterApplicationSubscriptions(subscriber, uowFactory); err != nil {
		return fmt.Errorf("failed to register event subscriptions: %w", err)
	}

	// Initialize Discord bot
	var discordBot *bot.Bot
	var announcer application.LotteryAnnouncer
	if cfg.DiscordToken != "" {
		log.Info("Initializing Discord bot...")
		discordBot, err = bot.New(bot.Config{
			Token:             cfg.DiscordToken,
			GuildID:           cfg.GuildID,
			AnnounceChannelID: cfg.AnnounceChannelID,
			CurrencySymbol:    cfg.CurrencySymbol,
		}, lotteryService, profiles)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		announcer = discordBot.GetLotteryAnnouncer()
		log.Info("Discord bot initialized successfully")
	} else {
		log.Warn("DISCORD_TOKEN not set, Discord bot disabled")
	}

	// Start the sync worker
	worker := application.NewLotterySyncWorker(lotteryService, uowFactory, announcer, cfg.SyncInterval)
	worker.SetGauge(observability.GetMetrics())
	stopWorker := worker.Start(ctx)

	// Start the HTTP API
	api := server.New(server.Config{
		Addr:           cfg.HTTPAddr,
		AllowedOrigins: cfg.CORSOrigins,
		CurrencySymbol: cfg.CurrencySymbol,
	}, lotteryService, profiles, application.NewTransactionHistory(uowFactory))
	api.Start()

	// Wait for context cancellation
	log.Infof("FortuneBlock is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(shutdownCtx)
	g.Go(func() error {
		if err := api.Shutdown(gctx); err != nil {
			return fmt.Errorf("http api: %w", err)
		}
		return nil
	})
	if discordBot != nil {
		g.Go(func() error {
			if err := discordBot.Close(); err != nil {
				return fmt.Errorf("discord bot: %w", err)
			}
			return nil
		})
	}
	if bus, ok := subscriber.(*events.Bus); ok {
		g.Go(func() error {
			bus.Wait()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics: %v", err)
	}
	log.Info("Shutdown completed")
	return nil
}

// newEventTransport uses NATS JetStream when servers are configured and the
// in-process bus otherwise
func newEventTransport(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, interfaces.EventSubscriber, func(), error) {
	if strings.TrimSpace(cfg.NATSServers) == "" {
		log.Info("NATS_SERVERS not set, using in-process event bus")
		bus := events.NewBus()
		return bus, bus, func() {}, nil
	}

	log.Infof("Connecting to NATS at %s...", cfg.NATSServers)
	client := infrastructure.NewNATSClient(cfg.NATSServers, eventSource)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	mapper := infrastructure.NewEventSubjectMapper()
	publisher := infrastructure.NewNATSEventPublisher(client, mapper, eventSource)
	if err := publisher.EnsureDomainEventStream(client); err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}
	subscriber := infrastructure.NewNATSEventSubscriber(client, mapper)

	return publisher, subscriber, func() {
		if err := client.Close(); err != nil {
			log.Errorf("Error closing NATS client: %v", err)
		}
	}, nil
}
