package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"defind/config"
	"defind/core"
	"defind/core/genesis"
	"defind/gateway/middleware"
	"defind/gateway/routes"
	"defind/observability"
	"defind/observability/logging"
	"defind/rpc"
	"defind/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	seedFlag := flag.String("seed", "", "Path to a seed catalog YAML file (overrides config SeedFile)")
	noSeed := flag.Bool("no-seed", false, "Skip seeding the catalog on first start")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("DEFIND_ENV"))
	logger := logging.Setup("defind", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	opts := []core.NodeOption{
		core.WithEmitter(observability.NewEventEmitter(logger, cfg.Metrics)),
	}
	if endpoint := strings.TrimSpace(cfg.TransferEndpoint); endpoint != "" {
		opts = append(opts, core.WithTransfer(newHTTPTransfer(endpoint, logger)))
	} else {
		logger.Warn("No transfer endpoint configured; withdrawals will settle 0 credits")
	}
	node := core.NewNode(db, opts...)

	if !*noSeed {
		catalog, err := resolveCatalog(*seedFlag, cfg.SeedFile)
		if err != nil {
			logger.Error("Failed to load seed catalog", slog.Any("error", err))
			os.Exit(1)
		}
		applied, err := node.ApplySeed(catalog)
		if err != nil {
			logger.Error("Failed to apply seed catalog", slog.Any("error", err))
			os.Exit(1)
		}
		if applied {
			logger.Info("Seed catalog applied", "websites", len(catalog.Entries))
		}
	}

	rpcServer := rpc.NewServer(node)
	go func() {
		if err := rpcServer.Start(cfg.RPCAddress); err != nil {
			logger.Error("RPC server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	obs := middleware.NewObservability(middleware.ObservabilityConfig{
		ServiceName: "defind",
		LogRequests: cfg.LogRequests,
		Enabled:     cfg.Metrics,
	}, logger)
	handler := routes.New(routes.Config{
		RPCHandler:    rpcServer,
		Observability: obs,
	})

	logger.Info("Starting gateway",
		"listen", cfg.ListenAddress,
		"rpc", cfg.RPCAddress,
		"network", cfg.NetworkName,
	)
	if err := http.ListenAndServe(cfg.ListenAddress, handler); err != nil {
		logger.Error("Gateway stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// resolveCatalog picks the seed source: an explicit flag wins over the config
// file, and with neither set the built-in catalog is used.
func resolveCatalog(flagPath, configPath string) (*genesis.Catalog, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = strings.TrimSpace(configPath)
	}
	if path == "" {
		return genesis.DefaultCatalog(), nil
	}
	catalog, err := genesis.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed catalog %s: %w", path, err)
	}
	return catalog, nil
}
