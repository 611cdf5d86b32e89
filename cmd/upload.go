package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackspot-labs/stackspot-agent/internal/agent"
)

var uploadAccountID string

// uploadCmd pushes files into the platform's context storage
var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload files to the platform's context storage",
	Long: `The upload command pushes local files into the StackSpot context
storage using the platform's presigned upload flow: for each file it
requests an upload form from the configured upload endpoint, then posts
the file to the storage backend with the form's fields.

The upload endpoint comes from --upload-url, STACKSPOT_UPLOAD_URL or the
upload_url config key. On success the upload IDs are printed one per
line; a failed file aborts the rest of the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadAccountID, "account-id", "", "Account ID to attach to upload form requests")
	rootCmd.PersistentFlags().String("upload-url", "", "File upload API endpoint for presigned forms")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger := agent.NewLogger(verbose, !noColor, httpTrace)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.UploadURL == "" {
		return fmt.Errorf("no upload endpoint configured (set --upload-url or STACKSPOT_UPLOAD_URL)")
	}

	tokens := agent.NewTokenProvider(cfg.AuthURL, cfg.Realm, logger)
	token, err := tokens.Token(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return err
	}

	uploader := agent.NewFileUploader(cfg.UploadURL, token, logger)
	if uploadAccountID != "" {
		uploader.SetAccountID(uploadAccountID)
	}

	ids, err := uploader.UploadFiles(ctx, args)
	for _, id := range ids {
		fmt.Println(id)
	}
	if err != nil {
		return fmt.Errorf("upload failed after %d file(s): %w", len(ids), err)
	}
	return nil
}
