package cmd

import (
	"fmt"
	"os"
	"time"

	"upload-agent/core/agent"
	"upload-agent/feature/objects"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	objectBucket   string
	objectFolder   string
	objectPrivate  bool
	objectOptimize bool
	objectExpiry   time.Duration
)

// objectCmd is the parent command for single object operations.
var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Upload, sign or delete a single object",
}

var objectUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a local file; the content type is detected from its bytes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		opts := agent.UploadOptions{
			Bucket:   objectBucket,
			Folder:   objectFolder,
			Optimize: objectOptimize,
		}
		if cmd.Flags().Changed("private") {
			opts.Private = &objectPrivate
		}

		key, err := rt.agent.UploadBuffer(ctx, body, opts)
		if err != nil {
			return err
		}

		rt.logger.Info("Uploaded object", zap.String("bucket", objectBucket), zap.String("key", key), zap.Int("size", len(body)))
		fmt.Println(key)
		return nil
	},
}

var objectURLCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Print a presigned read URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		expiry := objectExpiry
		if expiry <= 0 {
			expiry = rt.cfg.Upload.PresignExpiry()
		}

		url, err := rt.agent.Presign(ctx, args[0], objectBucket, expiry)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

var objectDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete an object and forget it in the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		svc := objects.NewService(rt.agent, rt.objectsLedger(), rt.cfg.Upload, rt.logger, nil)
		if err := svc.Delete(ctx, objectBucket, args[0]); err != nil {
			return err
		}

		rt.logger.Info("Deleted object", zap.String("bucket", objectBucket), zap.String("key", args[0]))
		return nil
	},
}

func init() {
	objectCmd.PersistentFlags().StringVarP(&objectBucket, "bucket", "b", "", "Bucket name (required)")
	_ = objectCmd.MarkPersistentFlagRequired("bucket")

	objectUploadCmd.Flags().StringVar(&objectFolder, "folder", "", "Folder prefix for the key")
	objectUploadCmd.Flags().BoolVar(&objectPrivate, "private", true, "Upload as private (defaults to the bucket setting)")
	objectUploadCmd.Flags().BoolVar(&objectOptimize, "optimize", false, "Resize images and re-encode them as WebP")

	objectURLCmd.Flags().DurationVar(&objectExpiry, "expiry", 0, "URL lifetime (defaults to upload.presign_expiry_seconds)")

	objectCmd.AddCommand(objectUploadCmd, objectURLCmd, objectDeleteCmd)
	RootCmd.AddCommand(objectCmd)
}
