package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skyras/skyras/internal/agent"
	agentrunrepo "github.com/skyras/skyras/internal/agentrun/repositoryimpl"
	assetrepo "github.com/skyras/skyras/internal/asset/repositoryimpl"
	"github.com/skyras/skyras/internal/atlas"
	atlasrepo "github.com/skyras/skyras/internal/atlas/repositoryimpl"
	"github.com/skyras/skyras/internal/catalog"
	"github.com/skyras/skyras/internal/chat"
	"github.com/skyras/skyras/internal/config"
	"github.com/skyras/skyras/internal/creative"
	"github.com/skyras/skyras/internal/distribution"
	"github.com/skyras/skyras/internal/eventbus"
	filerepo "github.com/skyras/skyras/internal/file/repositoryimpl"
	"github.com/skyras/skyras/internal/goldenpath"
	"github.com/skyras/skyras/internal/licensing"
	"github.com/skyras/skyras/internal/linkfetch"
	"github.com/skyras/skyras/internal/marcus"
	postrepo "github.com/skyras/skyras/internal/post/repositoryimpl"
	"github.com/skyras/skyras/internal/provider"
	"github.com/skyras/skyras/internal/pushnotification"
	pushsubrepo "github.com/skyras/skyras/internal/pushsubscription/repositoryimpl"
	"github.com/skyras/skyras/internal/workflow"
	workflowrepo "github.com/skyras/skyras/internal/workflow/repositoryimpl"
	"github.com/skyras/skyras/internal/workflowtmpl"
	"github.com/skyras/skyras/pkg/clog"
	"github.com/skyras/skyras/pkg/llm"
	"github.com/skyras/skyras/pkg/storage"

	server "github.com/skyras/skyras/internal"
)

func main() {
	// Local development reads SKYRAS_* vars from a .env file if present.
	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(context.Background(), env.StorageEnv.S3Bucket, env.StorageEnv.S3Prefix, env.StorageEnv.S3Region)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup event bus
	bus := eventbus.New()

	// Setup repositories
	fileRepo := filerepo.NewYAMLRepository(store)
	assetRepo := assetrepo.NewYAMLRepository(store)
	postRepo := postrepo.NewYAMLRepository(store)
	workflowRepo := workflowrepo.NewYAMLRepository(store)
	runRepo := agentrunrepo.NewYAMLRepository(store)
	stateRepo := atlasrepo.NewYAMLRepository(store)
	pushSubRepo := pushsubrepo.NewYAMLRepository(store)

	// Setup LLM client. A nil client keeps the dispatcher in keyword-only
	// mode instead of failing at startup.
	var llmClient llm.Client
	if c := llm.NewAnthropicClient(env.AnthropicAPIKey); c != nil {
		llmClient = c
	}

	// Setup image provider chain
	imageRouter := provider.NewRouter(
		env.ProviderEnv.Priority(),
		provider.NewReplicate(env.ReplicateAPIToken),
		provider.NewRunway(env.RunwayAPIKey),
	)

	// Setup workflow templates with hot reload
	templates, err := workflowtmpl.NewRegistry(env.WorkflowEnv.TemplateDir)
	if err != nil {
		slog.Error("failed to load workflow templates", "error", err)
		os.Exit(1)
	}

	// Setup agents
	registry := agent.NewRegistry()
	registry.Register(licensing.New(fileRepo))
	registry.Register(creative.New(imageRouter, assetRepo))
	registry.Register(distribution.New(postRepo, bus, env.JamalPublishEnabled))
	registry.Register(catalog.New(assetRepo))
	registry.Register(workflow.NewAgent(workflowRepo, templates))
	registry.Register(atlas.New(stateRepo, bus))

	dispatcher := marcus.New(registry, llmClient, linkfetch.New(), bus)
	registry.Register(dispatcher)

	runner := goldenpath.NewRunner(dispatcher)

	// Setup push notification
	vapidEnv := config.VAPIDEnvFromEnv(env)
	pushSender := pushnotification.NewSender(vapidEnv, pushSubRepo)
	pushHandler := pushnotification.NewHandler(vapidEnv, pushSubRepo)
	pushDispatcher := pushnotification.NewDispatcher(bus, pushSender)

	chatHandler := chat.NewHandler(registry, runner, runRepo, bus)

	srv := server.NewServer(env, chatHandler, pushHandler)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go func() {
		if err := templates.Watch(ctx); err != nil {
			slog.Warn("workflow template watcher stopped", "error", err)
		}
	}()
	go pushDispatcher.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	// Give active connections time to finish after request contexts are cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
