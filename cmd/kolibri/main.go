package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kolibri-labs/kolibri/internal/config"
	"github.com/kolibri-labs/kolibri/internal/engine"
	"github.com/kolibri-labs/kolibri/internal/ledger"
	"github.com/kolibri-labs/kolibri/internal/metrics"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "verify":
		verifyCmd(os.Args[2:])
	case "replay":
		replayCmd(os.Args[2:])
	default:
		printHelp()
		os.Exit(2)
	}
}

func printHelp() {
	fmt.Println("usage: kolibri <run|verify|replay> [flags]")
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (JSON or YAML)")
	steps := fs.Uint64("steps", 0, "override configured step count (0 = use config)")
	seed := fs.Uint64("seed", 0, "override configured seed (0 = use config)")
	ledgerPath := fs.String("ledger", "logs/chain.jsonl", "path to the ledger file")
	fs.Parse(args)

	cfg, src := loadConfigOrDefaults(*configPath)
	if *steps > 0 {
		cfg.Steps = *steps
	}
	if *seed > 0 {
		cfg.Seed = *seed
	}

	ledgerDir := parentDir(*ledgerPath)
	if err := os.MkdirAll(ledgerDir, 0o755); err != nil {
		log.Fatalf("[kolibri] create ledger directory: %v", err)
	}

	reg := prometheus.NewRegistry()
	collectors := metrics.New(reg)

	eng, err := engine.New(cfg, *ledgerPath, nil, collectors)
	if err != nil {
		log.Fatalf("[kolibri] initialize engine: %v", err)
	}
	defer eng.Close()

	if err := writeConfigSnapshot(cfg, src, eng.RunID(), ledgerDir); err != nil {
		log.Fatalf("[kolibri] write config snapshot: %v", err)
	}

	log.Printf("[kolibri] run %s: %d steps, seed=%d, ledger=%s", eng.RunID(), cfg.Steps, cfg.Seed, *ledgerPath)
	if err := eng.Run(cfg.Steps); err != nil {
		log.Fatalf("[kolibri] tick failed: %v", err)
	}
	log.Printf("[kolibri] run %s complete: %d blocks written", eng.RunID(), cfg.Steps)
}

// writeConfigSnapshot renders cfg/src/runID as the one-shot
// logs/config_snapshot.json artifact described in spec §6.
func writeConfigSnapshot(cfg config.Config, src config.Source, runID, dir string) error {
	snap, err := config.BuildSnapshot(cfg, src, runID)
	if err != nil {
		return err
	}
	body, err := snap.MarshalPretty()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config_snapshot.json"), body, 0o644)
}

func verifyCmd(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (JSON or YAML)")
	fs.Parse(args)

	path := "logs/chain.jsonl"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	cfg, _ := loadConfigOrDefaults(*configPath)
	collectors := metrics.New(prometheus.NewRegistry())

	lines, err := ledger.ReadLines(path)
	if err != nil {
		collectors.VerifyFailures.Inc()
		log.Printf("[kolibri] FAIL: %v", err)
		os.Exit(1)
	}
	res, err := ledger.Verify(lines, ledger.Options{HMACKey: cfg.HMACKey, Salt: cfg.HMACSalt})
	if err != nil {
		collectors.VerifyFailures.Inc()
		log.Printf("[kolibri] FAIL: %v", err)
		os.Exit(1)
	}
	fmt.Printf("OK: chain verified (%d blocks)\n", res.Blocks)
}

func replayCmd(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (JSON or YAML)")
	fs.Parse(args)

	cfg, _ := loadConfigOrDefaults(*configPath)
	path := "logs/chain.jsonl"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	lines, err := ledger.ReadLines(path)
	if err != nil {
		log.Fatalf("[kolibri] replay: %v", err)
	}
	if _, err := ledger.Verify(lines, ledger.Options{HMACKey: cfg.HMACKey, Salt: cfg.HMACSalt}); err != nil {
		log.Fatalf("[kolibri] replay: %v", err)
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}

func loadConfigOrDefaults(path string) (config.Config, config.Source) {
	if path == "" {
		return config.Defaults(), config.Source{}
	}
	cfg, src, err := config.Load(path)
	if err != nil {
		log.Printf("[kolibri] config warning: %v (using defaults)", err)
	}
	if src.Loaded {
		log.Printf("[kolibri] loaded config from %s", path)
	}
	return cfg, src
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
