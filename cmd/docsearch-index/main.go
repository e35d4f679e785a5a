// Command docsearch-index is the ingestion CLI: it runs the Source
// Harvester (C1) over the configured source-tree registry and rebuilds the
// Catalog & FTS Builder (C2) output, either once or on a cron-scheduled
// re-harvest loop.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/docsearch/internal/catalog"
	"github.com/ternarybob/docsearch/internal/common"
	"github.com/ternarybob/docsearch/internal/harvest"
	"github.com/ternarybob/docsearch/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", os.Getenv("DOCSEARCH_CONFIG"), "path to docsearch.toml")
	sourcesPath := flag.String("sources", "", "path to sources.toml (defaults to <sources_dir>/sources.toml)")
	rebuild := flag.Bool("rebuild", false, "run one harvest+rebuild pass and exit")
	schedule := flag.Bool("schedule", false, "run a harvest+rebuild pass on the configured cron schedule")
	flag.Parse()

	config, err := common.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.SetupLogger(config)
	defer common.Stop()

	if *sourcesPath == "" {
		*sourcesPath = config.Harvest.SourcesDir + "/sources.toml"
	}

	store, err := sqlite.Open(logger, &config.Storage.SQLite)
	if err != nil {
		logger.Fatal().Err(err).Msg("docsearch-index: failed to open catalog store")
	}
	defer store.Close()

	builder := catalog.New(store, logger, config.Harvest.CatalogDir)

	runOnce := func() error {
		reg, err := harvest.LoadRegistry(*sourcesPath)
		if err != nil {
			return err
		}
		h := harvest.New(logger)
		results := h.HarvestAll(reg)
		return builder.Rebuild(results)
	}

	if !*rebuild && !*schedule {
		*rebuild = true // default action when no flag is given
	}

	if *rebuild {
		if err := runOnce(); err != nil {
			logger.Fatal().Err(err).Msg("docsearch-index: harvest+rebuild failed")
		}
		if !*schedule {
			return
		}
	}

	if *schedule {
		if config.Harvest.Schedule == "" {
			logger.Fatal().Msg("docsearch-index: --schedule requires harvest.schedule to be set")
		}
		c := cron.New(cron.WithSeconds())
		_, err := c.AddFunc(config.Harvest.Schedule, func() {
			if err := runOnce(); err != nil {
				logger.Error().Err(err).Msg("docsearch-index: scheduled harvest+rebuild failed")
			}
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("docsearch-index: invalid harvest schedule")
		}
		logger.Info().Str("schedule", config.Harvest.Schedule).Msg("docsearch-index: scheduled re-harvest running")
		c.Run()
	}
}
