package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calagent/calagent/internal/a2a"
	"github.com/calagent/calagent/internal/agent"
	"github.com/calagent/calagent/internal/config"
	"github.com/calagent/calagent/internal/instrumentation"
	"github.com/calagent/calagent/internal/logging"
	"github.com/calagent/calagent/internal/model"
	"github.com/calagent/calagent/internal/server"
	"github.com/calagent/calagent/internal/tools/calendar_tools"
)

type serveOptions struct {
	debug          bool
	httpAddr       string
	toolsURL       string
	jwtSecret      string
	modelName      string
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calendar agent endpoint",
		Long: `Start the agent endpoint that answers natural-language calendar
questions over the A2A protocol (JSON-RPC with message/send, message/stream,
tasks/get and tasks/cancel, plus the agent card at /.well-known/agent.json).

By default the calendar tool server runs in-process. Point --tools-url at a
standalone tool server (see "calagent tools") to run the tool layer
separately.

Configuration comes from flags and environment variables:
  ANTHROPIC_API_KEY    model provider credentials (required)
  ANTHROPIC_MODEL      model name override
  GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET
                       OAuth client for Google Calendar and Tasks
  JWT_SECRET           enable bearer session auth when set
  HOST, PORT, APP_URL  bind address and advertised URL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", "", "HTTP listen address. Defaults to HOST:PORT from the environment (localhost:10001).")
	cmd.Flags().StringVar(&opts.toolsURL, "tools-url", "", "URL of a standalone tool server (e.g. http://localhost:8080/mcp). Default is an in-process tool server.")
	cmd.Flags().StringVar(&opts.jwtSecret, "jwt-secret", "", "Secret for bearer session auth. Can also use JWT_SECRET env var. Empty disables auth.")
	cmd.Flags().StringVar(&opts.modelName, "model", "", "Model name. Can also use ANTHROPIC_MODEL env var.")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address.")

	return cmd
}

func runServe(opts serveOptions) error {
	cfg := config.FromEnv()
	if opts.httpAddr == "" {
		opts.httpAddr = cfg.ListenAddr()
	}
	if opts.jwtSecret == "" {
		opts.jwtSecret = cfg.JWTSecret
	}
	if opts.modelName == "" {
		opts.modelName = cfg.AnthropicModel
	}

	if opts.debug {
		logging.Setup("debug")
	} else {
		logging.Setup(cfg.LogLevel)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceName = cfg.ServiceName
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	// Start the metrics server on its own port
	var metricsServer *server.MetricsServer
	if opts.metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server stopped", logging.Err(err))
			}
		}()
		slog.Info("metrics server listening", slog.String("addr", metricsServer.Addr()))

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				slog.Error("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	// Server context owns the per-account Google API clients
	serverContext, err := server.NewServerContext(shutdownCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			slog.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	if provider.Enabled() {
		serverContext.SetInstrumentation(provider.Metrics(),
			instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}

	// Tool session: in-process by default, remote when --tools-url is set
	var session agent.ToolSession
	if opts.toolsURL != "" {
		session, err = agent.NewStreamableHTTPSession(shutdownCtx, opts.toolsURL)
		if err != nil {
			return fmt.Errorf("failed to connect to tool server at %s: %w", opts.toolsURL, err)
		}
		slog.Info("using remote tool server", slog.String("url", opts.toolsURL))
	} else {
		mcpSrv := mcpserver.NewMCPServer(cfg.ServiceName, version,
			mcpserver.WithToolCapabilities(true),
		)
		if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext); err != nil {
			return fmt.Errorf("failed to register calendar tools: %w", err)
		}
		session, err = agent.NewInProcessSession(shutdownCtx, mcpSrv)
		if err != nil {
			return fmt.Errorf("failed to start in-process tool server: %w", err)
		}
	}
	defer session.Close()

	claude, err := model.NewClaude(cfg.AnthropicAPIKey, opts.modelName)
	if err != nil {
		return err
	}

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	orchestrator := agent.New(claude, session, agent.Config{
		ModelTimeout: cfg.ModelTimeout,
		ToolTimeout:  cfg.ToolTimeout,
		ModelName:    claude.Model(),
		Metrics:      metrics,
	})

	a2aServer := a2a.NewServer(orchestrator, a2a.Config{
		ID:          cfg.AgentID,
		Name:        cfg.AgentName,
		Description: config.AgentDescription,
		Version:     version,
		URL:         cfg.AppURL,
		JWTSecret:   opts.jwtSecret,
		Metrics:     metrics,
	})

	healthChecker := server.NewHealthChecker(serverContext)

	mux := http.NewServeMux()
	healthChecker.RegisterHealthEndpoints(mux)
	mux.Handle("/", a2aServer.Handler())

	// WriteTimeout stays zero so message/stream SSE connections are
	// not cut off mid-task.
	httpServer := &http.Server{
		Addr:              opts.httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	healthChecker.SetReady(true)
	slog.Info("agent endpoint listening",
		slog.String("addr", opts.httpAddr),
		slog.String("url", cfg.AppURL),
		slog.String("model", claude.Model()),
		slog.Bool("auth", opts.jwtSecret != ""))

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Info("shutdown signal received, stopping agent endpoint")
		healthChecker.SetReady(false)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("error shutting down agent endpoint: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("agent endpoint stopped with error: %w", err)
		}
	}

	slog.Info("agent endpoint stopped")
	return nil
}
