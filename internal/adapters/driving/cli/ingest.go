package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file-id]",
	Short: "Ingest a Google Doc into the index",
	Long: `Fetches the document, splits it into chunks, embeds them and
replaces the document's chunk set in the vector store. The file must be
shared with the configured service account.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	fileID := args[0]
	req := domain.IngestionRequest{FileID: fileID}

	if err := ingestionService.Enqueue(cmd.Context(), req); err != nil {
		return fmt.Errorf("ingesting %s: %w", fileID, err)
	}

	cmd.Printf("Ingested %s\n", fileID)
	return nil
}
