// Command docsearch-mcp is the tool-provider entry point: it loads the
// catalog built by docsearch-index, wires the Hybrid Scorer, URL Resolver,
// Document Fetcher, and Live Source Adapters behind the shared Tool
// Surface, then exposes that surface over either the mcp-go stdio
// transport (for direct editor mounting) or the session-aware HTTP
// transport at /mcp (for remote mounting), with a graceful shutdown on the
// HTTP path.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/common"
	"github.com/ternarybob/docsearch/internal/content"
	"github.com/ternarybob/docsearch/internal/fetch"
	"github.com/ternarybob/docsearch/internal/harvest"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/live"
	"github.com/ternarybob/docsearch/internal/search"
	"github.com/ternarybob/docsearch/internal/storage/sqlite"
	"github.com/ternarybob/docsearch/internal/tools"
	"github.com/ternarybob/docsearch/internal/transport"
	"github.com/ternarybob/docsearch/internal/urlresolve"
)

func main() {
	configPath := flag.String("config", os.Getenv("DOCSEARCH_CONFIG"), "path to docsearch.toml")
	sourcesPath := flag.String("sources", "", "path to sources.toml (defaults to <sources_dir>/sources.toml)")
	urlsPath := flag.String("urls", "", "path to urlresolve.toml (defaults to <sources_dir>/urlresolve.toml)")
	transportFlag := flag.String("transport", os.Getenv("DOCSEARCH_TRANSPORT"), "stdio or http (default stdio)")
	flag.Parse()

	config, err := common.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docsearch-mcp: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.SetupLogger(config)
	defer common.Stop()
	common.InstallCrashHandler("./logs")

	mode := *transportFlag
	if mode == "" {
		mode = "stdio"
	}
	if mode == "http" {
		common.PrintBanner(config, logger)
	}

	store, err := sqlite.Open(logger, &config.Storage.SQLite)
	if err != nil {
		logger.Fatal().Err(err).Msg("docsearch-mcp: failed to open catalog store")
	}
	defer store.Close()

	if *sourcesPath == "" {
		*sourcesPath = config.Harvest.SourcesDir + "/sources.toml"
	}
	contentSrc := content.NewSource()
	if reg, err := harvest.LoadRegistry(*sourcesPath); err != nil {
		logger.Warn().Err(err).Msg("docsearch-mcp: failed to load source registry, local content reads will fail")
	} else {
		for _, src := range reg.Sources {
			contentSrc.Register(src.LibraryID, src.Dir)
		}
	}

	if *urlsPath == "" {
		*urlsPath = config.Harvest.SourcesDir + "/urlresolve.toml"
	}
	urlConfigs, err := urlresolve.LoadConfigs(*urlsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("docsearch-mcp: failed to load URL resolver config, URLs will be unavailable")
	}
	resolver := urlresolve.New(urlConfigs)

	adapters := buildLiveAdapters(config, logger)

	scorer := search.New(store, resolver, contentSrc, adapters, logger)
	fetcher := fetch.New(store, contentSrc, resolver, adapters, logger)

	registry := tools.New(tools.Dependencies{
		Search:        scorer,
		Fetch:         fetcher.Fetch,
		FeatureMatrix: findAdapter(adapters, "abap-feature-matrix"),
		Community:     findAdapter(adapters, "community"),
		Logger:        logger,
	})

	switch mode {
	case "http":
		runHTTP(config, registry, logger)
	default:
		runStdio(registry, logger)
	}
}

// buildLiveAdapters constructs the four Live Source Adapters (C5) from
// config, applying per-source overrides from config.Live.Sources on top
// of the process-wide defaults. A source with no configured base URL is
// wired as a nullAdapter-equivalent by simply skipping construction; the
// tool surface and fetcher both tolerate nil/absent adapters.
func buildLiveAdapters(config *common.Config, logger arbor.ILogger) []interfaces.LiveAdapter {
	if !config.Live.Enabled {
		return nil
	}

	overrides := make(map[string]common.LiveSourceConfig, len(config.Live.Sources))
	for _, src := range config.Live.Sources {
		overrides[src.Name] = src
	}

	resolve := func(name string) live.Config {
		cfg := live.Config{
			Name:          name,
			Timeout:       config.Live.RequestTimeout,
			CacheTTL:      config.Live.CacheTTL,
			RatePerSecond: config.Live.RatePerSecond,
			Burst:         config.Live.Burst,
		}
		if src, ok := overrides[name]; ok {
			cfg.BaseURL = src.BaseURL
			if src.RequestTimeout > 0 {
				cfg.Timeout = src.RequestTimeout
			}
			if src.CacheTTL > 0 {
				cfg.CacheTTL = src.CacheTTL
			}
			if src.RatePerSecond > 0 {
				cfg.RatePerSecond = src.RatePerSecond
			}
			if src.Burst > 0 {
				cfg.Burst = src.Burst
			}
		}
		return cfg
	}

	var adapters []interfaces.LiveAdapter
	for _, build := range []struct {
		name string
		new  func(live.Config, arbor.ILogger) interfaces.LiveAdapter
	}{
		{"community", func(c live.Config, l arbor.ILogger) interfaces.LiveAdapter { return live.NewCommunityAdapter(c, l) }},
		{"community-articles", func(c live.Config, l arbor.ILogger) interfaces.LiveAdapter { return live.NewArticleSiteAdapter(c, l) }},
		{"sap-help", func(c live.Config, l arbor.ILogger) interfaces.LiveAdapter { return live.NewHelpPortalAdapter(c, l) }},
		{"abap-feature-matrix", func(c live.Config, l arbor.ILogger) interfaces.LiveAdapter { return live.NewFeatureMatrixAdapter(c, l) }},
	} {
		cfg := resolve(build.name)
		if cfg.BaseURL == "" {
			logger.Debug().Str("adapter", build.name).Msg("docsearch-mcp: no base URL configured, adapter disabled")
			continue
		}
		adapters = append(adapters, build.new(cfg, logger))
	}
	return adapters
}

func findAdapter(adapters []interfaces.LiveAdapter, name string) interfaces.LiveAdapter {
	for _, a := range adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// runStdio mounts the Tool Surface on mcp-go's stdio transport, the shape
// editor/agent clients expect when launching this binary directly.
func runStdio(registry *tools.Registry, logger arbor.ILogger) {
	mcpServer := server.NewMCPServer(
		"docsearch-mcp",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	registry.RegisterStdio(mcpServer)

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("docsearch-mcp: stdio server failed")
	}
}

// runHTTP starts the session-aware /mcp HTTP transport (C8), blocking
// until SIGINT/SIGTERM triggers a graceful shutdown: close listeners,
// stop the session sweep, flush logs, exit 0.
func runHTTP(config *common.Config, registry *tools.Registry, logger arbor.ILogger) {
	transportServer := transport.NewServer(registry, transport.Config{
		SessionSweepInterval: config.Transport.SessionSweepInterval,
		SessionIdleTimeout:   config.Transport.SessionIdleTimeout,
		EventLogRetention:    config.Transport.EventLogRetention,
		Version:              common.GetVersion(),
	}, logger)
	defer transportServer.Close()

	mux := http.NewServeMux()
	transportServer.Routes(mux)
	httpServer := transport.BuildHTTPServer(fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port), mux)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("docsearch-mcp: HTTP transport starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("docsearch-mcp: HTTP transport failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("docsearch-mcp: shutdown signal received, draining sessions")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("docsearch-mcp: HTTP shutdown did not complete cleanly")
	}
}
