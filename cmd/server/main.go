// Package main is the entry point for the securehello service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/securehello/securehello/internal/auth/jwt"
	"github.com/securehello/securehello/internal/config"
	"github.com/securehello/securehello/internal/directory"
	"github.com/securehello/securehello/internal/health"
	"github.com/securehello/securehello/internal/observability"
	"github.com/securehello/securehello/internal/policy"
	"github.com/securehello/securehello/internal/server"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 30 * time.Second

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadAndValidateConfig(flags.configPath, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := initServer(ctx, cfg, logger)
	run(ctx, srv, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("SECUREHELLO_CONFIG_PATH", "configs/securehello.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("SECUREHELLO_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("SECUREHELLO_LOG_FORMAT", "json"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("securehello version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// loadAndValidateConfig loads and validates the configuration.
func loadAndValidateConfig(configPath string, logger observability.Logger) *config.Config {
	logger.Info("starting securehello",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.String("profile", cfg.Security.Profile),
		observability.String("keycloak_realm", cfg.Keycloak.Realm),
		observability.Int("port", cfg.Server.Port),
	)

	return cfg
}

// initServer wires all components into a ready-to-start server.
func initServer(ctx context.Context, cfg *config.Config, logger observability.Logger) *server.Server {
	pol, err := policy.ForProfile(cfg.Security.Profile)
	if err != nil {
		logger.Fatal("failed to select security profile", observability.Error(err))
	}
	engine := policy.NewEngine(pol, policy.WithEngineLogger(logger))

	verifier, err := jwt.NewValidator(ctx, &jwt.Config{
		JWKSURL: cfg.Keycloak.JWKSURL(),
		Issuer:  cfg.Keycloak.IssuerURL(),
	}, jwt.WithValidatorLogger(logger))
	if err != nil {
		logger.Fatal("failed to initialize token validator", observability.Error(err))
	}

	dir := directory.NewClient(cfg.Keycloak, directory.WithClientLogger(logger))

	checker := health.NewChecker(version)
	checker.RegisterCheck("keycloak", health.IdentityProviderCheck(nil, cfg.Keycloak.IssuerURL()))

	router := server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Policy:   pol,
		Engine:   engine,
		Verifier: verifier,
		Dir:      dir,
		Checker:  checker,
		Logger:   logger,
	})

	logger.Info("security policy active",
		observability.String("variant", pol.Name),
		observability.Int("rules", len(pol.Rules)),
		observability.String("session_mode", string(pol.Session)),
		observability.Bool("hsts", pol.StrictTransportSecurity),
	)

	return server.New(cfg.Server, router, logger)
}

// run starts the server and blocks until a shutdown signal arrives.
func run(ctx context.Context, srv *server.Server, logger observability.Logger) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", observability.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", observability.Error(err))
		}
	}

	logger.Info("securehello stopped")
}
