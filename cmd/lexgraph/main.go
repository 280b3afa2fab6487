// Command lexgraph drives the citation graph pipeline from the shell:
// discover law sources, build the corpus, and compute centrality metrics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pmarcenaro/lexgraph"
	"github.com/pmarcenaro/lexgraph/graph"
)

func main() {
	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "sources":
		err = runSources(ctx, os.Args[2:])
	case "build":
		err = runBuild(ctx, os.Args[2:])
	case "metrics":
		err = runMetrics(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: lexgraph <command> [flags]

commands:
  sources   list the law sources available on the site
  build     fetch sources and persist the corpus
  metrics   build the adjacency matrix and export centrality measures`)
}

// loadConfig builds the engine configuration from an optional JSON file
// and environment overrides.
func loadConfig(path string) (lexgraph.Config, error) {
	cfg := lexgraph.DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("opening config: %w", err)
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}
	if v := os.Getenv("LEXGRAPH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LEXGRAPH_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LEXGRAPH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	return cfg, nil
}

func runSources(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (JSON)")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	e, err := lexgraph.New(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	sources, err := e.Sources(ctx)
	if err != nil {
		return err
	}
	for _, s := range sources {
		fmt.Println(s)
	}
	return nil
}

func runBuild(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (JSON)")
	sameSource := fs.Bool("same-source", false, "keep only references within the same source")
	pdfs := fs.String("pdf", "", "comma-separated source=file.pdf pairs to ingest as gazette sources")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *sameSource {
		cfg.AllRefs = false
	}
	e, err := lexgraph.New(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	sources := fs.Args()
	if len(sources) == 0 && *pdfs == "" {
		discovered, err := e.Sources(ctx)
		if err != nil {
			return err
		}
		sources = discovered
	}

	if len(sources) > 0 {
		if _, err := e.BuildCorpus(ctx, sources); err != nil {
			return err
		}
	}

	if *pdfs != "" {
		for _, pair := range strings.Split(*pdfs, ",") {
			source, file, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("malformed -pdf entry %q, want source=file.pdf", pair)
			}
			records, err := e.BuildPDFSource(file, source)
			if err != nil {
				return err
			}
			slog.Info("pdf source ingested", "source", source, "articles", len(records))
		}
	}
	return nil
}

func runMetrics(args []string) error {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (JSON)")
	source := fs.String("source", "all", "persisted corpus to load")
	prefixes := fs.String("prefixes", "", "comma-separated identifier prefixes to restrict the graph to")
	format := fs.String("format", "csv", "export format: csv or xlsx")
	out := fs.String("out", "", "output file (default <data-dir>/centrality.<format>)")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	e, err := lexgraph.New(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	c, err := e.LoadCorpus(*source)
	if err != nil {
		return err
	}

	var prefixList []string
	if *prefixes != "" {
		prefixList = strings.Split(*prefixes, ",")
	}
	rows, m, err := e.Metrics(c, prefixList)
	if err != nil {
		return err
	}

	if err := m.Save(filepath.Join(cfg.DataDir, "matrix.bin")); err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = filepath.Join(cfg.DataDir, "centrality."+*format)
	}
	switch *format {
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		if err := graph.WriteCSV(f, rows); err != nil {
			return err
		}
	case "xlsx":
		if err := graph.WriteXLSX(path, rows); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	slog.Info("centrality exported", "nodes", len(rows), "path", path)
	return nil
}
