package cmd

import (
	"fmt"
	"os"

	"upload-agent/feature/buckets"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// bucketsCmd is the parent command for bucket operations.
var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Inspect the configured buckets",
}

var bucketsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every configured bucket exists and is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		reports := buckets.NewService(rt.agent.Registry(), nil, 0, rt.logger).Check(ctx)

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(reports)
		}

		failed := 0
		for _, r := range reports {
			fields := []zap.Field{
				zap.String("bucket", r.Name),
				zap.String("provider", r.Provider),
				zap.Bool("private", r.Private),
			}
			switch {
			case r.Error != "":
				failed++
				rt.logger.Error("Bucket unreachable", append(fields, zap.String("error", r.Error))...)
			case !r.Exists:
				failed++
				rt.logger.Error("Bucket missing", fields...)
			default:
				rt.logger.Info("Bucket ok", fields...)
			}
		}

		if configured := len(rt.cfg.Buckets); configured != len(reports) {
			rt.logger.Warn("Some buckets could not be registered",
				zap.Int("configured", configured),
				zap.Int("registered", len(reports)))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d buckets failed the check", failed, len(reports))
		}
		return nil
	},
}

func init() {
	bucketsCheckCmd.Flags().Bool("json", false, "Output the report as JSON")
	bucketsCmd.AddCommand(bucketsCheckCmd)
	RootCmd.AddCommand(bucketsCmd)
}
