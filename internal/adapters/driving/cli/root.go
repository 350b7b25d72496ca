// Package cli implements the vellum command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vellum-labs/vellum/internal/adapters/driven/embedding"
	"github.com/vellum-labs/vellum/internal/adapters/driven/vectorstore"
	"github.com/vellum-labs/vellum/internal/chunker"
	"github.com/vellum-labs/vellum/internal/config"
	"github.com/vellum-labs/vellum/internal/connectors/google"
	"github.com/vellum-labs/vellum/internal/core/ports/driven"
	"github.com/vellum-labs/vellum/internal/core/ports/driving"
	"github.com/vellum-labs/vellum/internal/core/services"
	"github.com/vellum-labs/vellum/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile string
	verbose bool
)

// Shared service instances, wired once per invocation.
var (
	cfg              *config.Config
	vectorStore      driven.VectorStore
	ingestionService driving.IngestionPipeline
	searchService    driving.SearchService
)

var rootCmd = &cobra.Command{
	Use:   "vellum",
	Short: "Keep a searchable vector index of your Google Docs",
	Long: `Vellum ingests Google Docs into a chunked, embedded vector index
and answers semantic search queries over it. Drive push notifications
keep the index in sync as documents change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initialiseServices(cmd.Context())
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if vectorStore != nil {
			vectorStore.Close() //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.vellum/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// servicesWired short-circuits initialisation when the services have
// already been injected, either by a previous run or by tests.
var servicesWired bool

// initialiseServices loads configuration and wires the store, embedding
// provider, fetcher and core services the commands share.
func initialiseServices(ctx context.Context) error {
	if servicesWired {
		return nil
	}
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if verbose || cfg.Verbose {
		logger.SetVerbose(true)
	}

	vectorStore, err = vectorstore.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}

	embedder, err := embedding.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedding provider: %w", err)
	}

	fetcher, err := newFetcher(ctx)
	if err != nil {
		return err
	}

	chunkerOpts := []chunker.Option{}
	if cfg.Ingestion.ChunkSize > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithChunkSize(cfg.Ingestion.ChunkSize))
	}
	if cfg.Ingestion.Overlap >= 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithOverlap(cfg.Ingestion.Overlap))
	}
	chk, err := chunker.New(chunkerOpts...)
	if err != nil {
		return fmt.Errorf("creating chunker: %w", err)
	}

	ingestionService = services.NewIngestionService(fetcher, embedder, vectorStore, chk)
	searchService = services.NewSearchService(embedder, vectorStore)
	servicesWired = true

	return nil
}

// newFetcher builds the Google Docs fetcher when credentials are
// configured, or returns nil so ingestion degrades with a clear error
// while search keeps working.
func newFetcher(ctx context.Context) (driven.DocumentFetcher, error) {
	credentials, err := cfg.ServiceAccountJSON()
	if err != nil {
		return nil, err
	}
	if credentials == nil {
		logger.Warn("no Google service account configured, ingestion is disabled")
		return nil, nil
	}

	ts, err := google.NewTokenSource(ctx, credentials)
	if err != nil {
		return nil, err
	}

	docsSvc, err := google.NewDocsService(ctx, ts)
	if err != nil {
		return nil, err
	}
	driveSvc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, err
	}

	return google.NewDocsFetcher(docsSvc, driveSvc, cfg.Google.WatchFolderID), nil
}
