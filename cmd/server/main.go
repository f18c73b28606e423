package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/internal/infrastructure/config"
	"flightdesk-service/internal/infrastructure/oauth"
	"flightdesk-service/internal/infrastructure/persistence"
	"flightdesk-service/internal/infrastructure/router"
	"flightdesk-service/internal/infrastructure/session"
	"flightdesk-service/internal/infrastructure/ticket"
	"flightdesk-service/internal/interface/api"
	"flightdesk-service/internal/interface/discord"
	storeRepo "flightdesk-service/internal/interface/repository"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/errtrack"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/pkg/utils"
	"flightdesk-service/templates"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
)

const sessionTTL = 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger(logger.Options{}).Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(logger.Options{FilePath: cfg.LogFile})
	defer log.Sync()
	log.Info("Starting Flightdesk Service", "version", cfg.AppVersion)

	if cfg.Token == "" {
		log.Fatal("TOKEN is not set")
	}

	if err := errtrack.Init(errtrack.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.AppVersion,
	}); err != nil {
		log.Warn("Error tracking disabled", "error", err)
	}
	defer errtrack.Flush(2 * time.Second)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("flightdesk", registry)

	// Set up the document backend
	var (
		docs        repository.DocumentRepository
		mongoClient *mongo.Client
	)
	switch cfg.DocumentBackend {
	case config.BackendMongo:
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		db := persistence.GetDatabase(mongoClient, cfg.MongoDB)
		docs = storeRepo.NewMongoDocumentRepository(db, cfg.MongoCollection, cfg.DataFile, log)
	default:
		docs = storeRepo.NewFileDocumentRepository(cfg.DataFile, log)
	}

	store := storeRepo.NewJSONFlightStore(docs, log)
	if err := store.Load(ctx); err != nil {
		log.Fatal("Failed to load flight data", "error", err)
	}

	// Aircraft names: built-in list, optionally extended from PostgreSQL
	aircraftRepos := []repository.AircraftRepository{storeRepo.NewStaticAircraftRepository()}
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgresDB(ctx, cfg.PostgresURI)
		if err != nil {
			log.Warn("PostgreSQL unavailable, using built-in aircraft list", "error", err)
		} else {
			aircraftRepos = append(aircraftRepos, storeRepo.NewGormAircraftRepository(gormDB))
		}
	}
	catalog := usecase.NewAircraftCatalog(log)
	catalog.Load(ctx, aircraftRepos...)

	// Discord
	dg, err := discord.NewSession(cfg.Token)
	if err != nil {
		log.Fatal("Failed to create Discord session", "error", err)
	}
	gateway := discord.NewGateway(dg, cfg.DiscordRateLimit, log, m)

	channels := usecase.Channels{
		Public:   cfg.PublicChannelID,
		Admin:    cfg.AdminChannelID,
		Announce: cfg.AnnounceChannelID,
		Log:      cfg.LogChannelID,
	}
	renderer := templates.NewRenderer(catalog, cfg.InterestRole)

	actions := usecase.NewActionLogger(gateway, cfg.LogChannelID, log, 100)
	go actions.Run(ctx)
	reporter := usecase.NewReporter(actions, log, m)

	sync := usecase.NewSynchronizer(store, gateway, renderer, channels, log, m)
	flights := usecase.NewFlightService(store, gateway, renderer, sync, actions, channels, log, m)

	tickets := ticket.NewRenderer(ticket.Options{
		BaseImage:   cfg.TicketBaseImage,
		FontLight:   cfg.FontLight,
		FontRegular: cfg.FontRegular,
		AircraftDir: cfg.AircraftImageDir,
		OutputDir:   cfg.TicketOutputDir,
	}, catalog, log)
	wizard := usecase.NewWizardService(store, flights, tickets, reporter, actions, log, m)

	// Set up action router
	actionRouter := router.NewActionRouter(log)
	actionRouter.Register(wizard)
	actionRouter.Register(usecase.NewAdminCommandHandler(flights, cfg.RoleRequired))
	actionRouter.Register(usecase.NewViewCommandHandler(flights, renderer))

	bot := discord.NewBot(dg, actionRouter, reporter, actions, cfg.GuildID, log)
	if err := bot.Start(ctx); err != nil {
		log.Fatal("Failed to open Discord gateway", "error", err)
	}

	// Dashboard
	secret := cfg.SecretKey
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("SECRET_KEY is not set, sessions will not survive a restart")
	}
	var provider api.OAuthProvider
	if cfg.OAuthConfigured() {
		provider = oauth.NewDiscordOAuth(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.DiscordRedirectURI, cfg.GuildID, log)
	} else {
		log.Warn("Discord OAuth is not configured, dashboard login is disabled")
	}

	server := api.NewServer(api.Config{
		Port:         cfg.Port,
		DashboardDir: cfg.DashboardDir,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		CORSOrigins:  cfg.CORSOrigins,
		LogFile:      cfg.LogFile,
		RoleRequired: cfg.RoleRequired,
	}, flights, reporter, session.NewSigner(secret, sessionTTL), provider, utils.NewLogParser(log), registry, log, m)

	// Start HTTP server in a goroutine
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		if err := server.Run(ctx); err != nil {
			log.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info("Received signal", "signal", sig)
	case <-ctx.Done():
	}

	cancel() // Cancel the context to stop all goroutines
	<-serverDone

	if err := bot.Stop(); err != nil {
		log.Error("Discord shutdown error", "error", err)
	}

	if mongoClient != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Flightdesk Service stopped")
}
