package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"routelens/internal/analyzer"
	"routelens/internal/config"
	"routelens/internal/git"
	"routelens/internal/report"
	"routelens/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "routelens",
		Short: "Route impact analysis for frontend codebases",
	}
	configPath string
	jsonOutput bool
	baseRef    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "routelens.yaml", "Path to the config file")

	detectCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the raw report as JSON")
	detectCmd.Flags().StringVar(&baseRef, "base", "HEAD", "Git ref to diff against when no files are given")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cleanCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		// Missing config is fine, defaults cover the common case.
		cfg = config.Default()
	}
	return cfg
}

// initAnalyzer wires the storage backend and analyzer from config.
func initAnalyzer(cfg *config.Config) (*analyzer.Analyzer, storage.Store, error) {
	var store storage.Store
	var err error

	switch cfg.Storage.Backend {
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.Storage.Path)
	default:
		store, err = storage.NewLocalStore(cfg.Storage.Path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	root, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	a := analyzer.New(analyzer.Options{
		Root:        root,
		Framework:   cfg.Project.Framework,
		Aliases:     cfg.Resolver.Aliases,
		Extensions:  cfg.Resolver.Extensions,
		MaxFileSize: cfg.Cache.MaxFileSize,
		Namespace:   cfg.Cache.Namespace,
		Store:       store,
	})
	return a, store, nil
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the project and build the import graph",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		a, store, err := initAnalyzer(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize analyzer: %v", err)
		}
		defer store.Close()

		fmt.Printf("📂 Scanning project: %s\n", cfg.Project.Root)
		start := time.Now()
		loaded, err := a.Initialize(ctx)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		m := a.Metrics()
		if loaded {
			fmt.Printf("♻️  Restored persisted graph (%d files).\n", m.TotalFiles)
		} else {
			fmt.Printf("✅ Graph built in %v. %d files, %d route files, %d import edges.\n",
				time.Since(start), m.TotalFiles, m.RouteFiles, m.ImportEdges)
		}
		fmt.Printf("🧭 Framework: %s\n", a.Framework())
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [files...]",
	Short: "Detect which routes are affected by the given changed files",
	Long:  "Detect which routes are affected by the given changed files. With no arguments, the changed files are taken from git diff against --base.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		changedFiles := args
		if len(changedFiles) == 0 {
			var err error
			changedFiles, err = git.GetChangedFiles(cfg.Project.Root, baseRef)
			if err != nil {
				log.Fatalf("Failed to get git changes: %v", err)
			}
		}
		if len(changedFiles) == 0 {
			fmt.Println("✅ No changes detected.")
			return
		}

		a, store, err := initAnalyzer(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize analyzer: %v", err)
		}
		defer store.Close()

		if _, err := a.Initialize(ctx); err != nil {
			log.Fatalf("Initialization failed: %v", err)
		}

		fmt.Printf("📝 Analyzing %d changed file(s)...\n", len(changedFiles))
		impacts := a.DetectRoutes(ctx, changedFiles)
		r := report.Build(impacts)

		if jsonOutput {
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				log.Fatalf("Failed to encode report: %v", err)
			}
			fmt.Println(string(data))
			return
		}
		fmt.Print(report.Render(r))
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes [component-file]",
	Short: "List the project's routes, or the routes serving one component",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		a, store, err := initAnalyzer(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize analyzer: %v", err)
		}
		defer store.Close()

		if _, err := a.Initialize(ctx); err != nil {
			log.Fatalf("Initialization failed: %v", err)
		}

		var routes []string
		if len(args) == 1 {
			routes = a.FindRoutesServingComponent(ctx, args[0])
		} else {
			routes = a.Routes()
		}
		if len(routes) == 0 {
			fmt.Println("No routes found.")
			return
		}
		for _, route := range routes {
			fmt.Println(route)
		}
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show graph and cache statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		a, store, err := initAnalyzer(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize analyzer: %v", err)
		}
		defer store.Close()

		if _, err := a.Initialize(ctx); err != nil {
			log.Fatalf("Initialization failed: %v", err)
		}

		m := a.Metrics()
		fmt.Printf("📊 Files: %d\n", m.TotalFiles)
		fmt.Printf("   Route files: %d\n", m.RouteFiles)
		fmt.Printf("   Entry points: %d\n", m.EntryPoints)
		fmt.Printf("   Import edges: %d\n", m.ImportEdges)
		fmt.Printf("   Cached records: %d\n", m.CacheSize)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear the in-memory caches and the persisted graph",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		a, store, err := initAnalyzer(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize analyzer: %v", err)
		}
		defer store.Close()

		a.ClearCache(ctx)
		fmt.Println("🧹 Cache cleared.")
	},
}
