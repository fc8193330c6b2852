package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"upload-agent/core/objects"
	"upload-agent/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcilePrefix string
	purgeOrphans    bool
	dryRunReconcile bool
	yesConfirm      bool
)

// reconcileCmd compares the ledger with a bucket and optionally purges the differences.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <bucket>",
	Short: "Reconcile the upload ledger with a bucket (report + optionally purge)",
	Long: `Reconcile detects orphans (objects the ledger never recorded) and dangling
entries (ledger rows whose object is gone). With --purge, orphans are deleted
from the bucket and dangling entries are removed from the ledger.`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcilePrefix, "prefix", "", "Only compare keys under this prefix")
	reconcileCmd.Flags().BoolVar(&purgeOrphans, "purge", false, "Delete orphans and forget dangling entries")
	reconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Show planned actions without executing (requires --purge)")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	bucket := args[0]

	rt, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	l := rt.logger
	defer l.Sync()

	client, _, ok := rt.agent.Registry().Lookup(bucket)
	if !ok {
		return fmt.Errorf("%w: %s", objects.ErrBucketNotConfigured, bucket)
	}

	r := reconcile.New(rt.store, client, l)
	spec := &reconcile.Spec{Bucket: bucket, Prefix: reconcilePrefix}
	opts := reconcile.Options{
		DoPurge: purgeOrphans,
		DryRun:  dryRunReconcile,
	}

	l.Info("Planning reconciliation...", zap.String("bucket", bucket), zap.String("prefix", reconcilePrefix))
	plan, err := r.ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	printReconcileReport(l, plan)

	if !purgeOrphans {
		l.Info("No actions requested. Use --purge to delete orphans and forget dangling entries.")
		return nil
	}
	if dryRunReconcile {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		l.Info("No actions required.")
		return nil
	}

	if !confirmDestructiveAction(ctx) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	l.Info("Applying actions...")
	executed, err := r.ApplyPlan(ctx, spec, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport logs the summary and a sample of the planned actions.
func printReconcileReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("ok", s.OK),
		zap.Int("orphans", s.Orphans),
		zap.Int("dangling", s.Dangling),
	)

	if len(plan.Actions) == 0 {
		return
	}

	l.Info("Planned actions", zap.Int("purge_actions", s.PurgeActions))
	shown := min(len(plan.Actions), 5)
	for _, action := range plan.Actions[:shown] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > shown {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-shown))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(ctx context.Context) bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to confirm destructive actions: ")
	answer := make(chan string, 1)
	go func() {
		response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer <- strings.TrimSpace(response)
	}()

	select {
	case response := <-answer:
		return response == "yes"
	case <-ctx.Done():
		return false
	}
}
