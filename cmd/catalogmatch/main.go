// Command catalogmatch enriches a JSON track list with catalog
// metadata. Grounded on main.go's top-level wiring order (load
// config, open storage, build the dependency chain, install signal
// handling, shut down gracefully), reshaped away from its embedded
// web UI and systray into a CLI plus an optional HTTP API.
package main

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
	"catalogmatch/internal/driver"
	"catalogmatch/internal/httpapi"
	"catalogmatch/internal/httpcache"
	"catalogmatch/internal/httpfetch"
	"catalogmatch/internal/match"
	"catalogmatch/internal/obs"
	"catalogmatch/internal/search"
	"catalogmatch/internal/trackinput"
)

func main() {
	inputPath := flag.String("input", "", "path to a JSON track list")
	outputPath := flag.String("output", "", "path to write match results as JSON (defaults to stdout)")
	cacheDSN := flag.String("cache-dsn", "", "data source name for the HTTP response cache (defaults per driver)")
	flag.Parse()

	cfg := config.Load()
	printStartupBanner(cfg)

	if *inputPath == "" {
		log.Fatal("catalogmatch: -input is required")
	}
	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("catalogmatch: reading input: %v", err)
	}
	tracks, err := trackinput.Load(data)
	if err != nil {
		log.Fatalf("catalogmatch: parsing input: %v", err)
	}

	var cache httpfetch.Cache
	if cfg.EnableCache {
		store, err := httpcache.Open(cfg, *cacheDSN)
		if err != nil {
			log.Fatalf("catalogmatch: opening cache: %v", err)
		}
		cache = store
	}

	fetchClient := httpfetch.New(cfg, cache)
	adapter := search.New(fetchClient, cfg)
	engine := match.New(adapter, fetchClient, cfg)
	drv := driver.New(engine, cfg)
	if cfg.AutoResearchEnabled {
		drv = drv.WithAutoResearch(engine.WithSettings(cfg.ForAutoResearch()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var apiServer *httpapi.Server
	if cfg.HTTPAPIEnabled {
		apiServer = httpapi.NewServer(drv)
		go func() {
			log.Printf("catalogmatch: HTTP API listening on %s", cfg.HTTPAPIAddr)
			if err := apiServer.Engine().Run(cfg.HTTPAPIAddr); err != nil {
				log.Printf("catalogmatch: HTTP API stopped: %v", err)
			}
		}()
	}

	results := drv.Run(ctx, tracks, progressLogger(cfg))

	if err := writeResults(*outputPath, results); err != nil {
		log.Fatalf("catalogmatch: writing results: %v", err)
	}
}

func progressLogger(cfg config.Settings) catalog.ProgressFunc {
	return func(info catalog.ProgressInfo) {
		obs.Verbose(cfg.Verbose, info.CompletedTracks,
			"%d/%d matched=%d unmatched=%d elapsed=%.1fs current=%q",
			info.CompletedTracks, info.TotalTracks, info.MatchedCount, info.UnmatchedCount,
			info.ElapsedSeconds, info.CurrentTrack.Title)
	}
}

func writeResults(path string, results []catalog.MatchResult) error {
	encoded, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err := os.Stdout.Write(append(encoded, '\n'))
		return err
	}
	return os.WriteFile(path, encoded, 0644)
}

// printStartupBanner mirrors original_source/utils.py's startup_banner:
// a one-line identity print plus a short fingerprint derived from the
// resolved settings, so two runs can be compared for configuration
// drift without diffing the whole settings table.
func printStartupBanner(cfg config.Settings) {
	exe, _ := os.Executable()
	fingerprint := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%+v", exe, runtime.Version(), cfg)))
	fmt.Printf("> Catalog Matcher  |  %s\n", exe)
	fmt.Printf("  Go: %s  |  Seed: %d  |  Fingerprint: %x\n", runtime.Version(), cfg.Seed, fingerprint[:4])
	if cfg.EnableCache {
		fmt.Println("  Cache: enabled")
	}
	fmt.Println()
}
