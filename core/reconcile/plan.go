package reconcile

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// deleteConcurrency bounds parallel object deletions.
const deleteConcurrency = 8

// ReconcileWithPlan reconciles and returns a plan. It does NOT execute
// actions; use ApplyPlan for that.
func (r *Reconciler) ReconcileWithPlan(ctx context.Context, spec *Spec, opts Options) (*Plan, error) {
	results, err := r.ReconcileAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	summary, actions := buildPlanFromResults(results, opts)
	return &Plan{Results: results, Actions: actions, Summary: summary}, nil
}

// ApplyPlan executes the actions of a plan and returns how many ran.
// Nothing runs unless opts.Confirmed is set and opts.DryRun is not.
func (r *Reconciler) ApplyPlan(ctx context.Context, spec *Spec, plan *Plan, opts Options) (int, error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	var storageKeys, ledgerKeys []string
	for _, a := range plan.Actions {
		switch a.Type {
		case ActionDeleteStorage:
			storageKeys = append(storageKeys, a.Key)
		case ActionDeleteLedger:
			ledgerKeys = append(ledgerKeys, a.Key)
		}
	}
	defer r.InvalidateCache(spec)

	var executed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, key := range storageKeys {
		g.Go(func() error {
			if err := r.client.RemoveObject(gctx, spec.Bucket, key); err != nil {
				return fmt.Errorf("failed to delete storage key %s: %w", key, err)
			}
			executed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(executed.Load()), err
	}

	if len(ledgerKeys) > 0 {
		if batch, ok := r.ledger.(BatchForgetter); ok {
			if err := batch.ForgetBatch(ctx, spec.Bucket, ledgerKeys); err != nil {
				return int(executed.Load()), fmt.Errorf("failed to batch delete ledger keys: %w", err)
			}
			executed.Add(int64(len(ledgerKeys)))
		} else {
			for _, key := range ledgerKeys {
				if err := r.ledger.Forget(ctx, spec.Bucket, key); err != nil {
					return int(executed.Load()), fmt.Errorf("failed to delete ledger key %s: %w", key, err)
				}
				executed.Add(1)
			}
		}
	}

	r.logger.Info("Applied reconcile plan",
		zap.String("bucket", spec.Bucket),
		zap.Int("storage_deleted", len(storageKeys)),
		zap.Int("ledger_deleted", len(ledgerKeys)))
	return int(executed.Load()), nil
}

func buildPlanFromResults(results []Result, opts Options) (PlanSummary, []Action) {
	summary := PlanSummary{TotalItems: len(results)}
	var actions []Action

	for _, res := range results {
		switch res.Status {
		case StatusOK:
			summary.OK++
		case StatusOrphan:
			summary.Orphans++
			if opts.DoPurge {
				actions = append(actions, Action{Type: ActionDeleteStorage, Key: res.Key, Reason: "missing in: ledger"})
			}
		case StatusDangling:
			summary.Dangling++
			if opts.DoPurge {
				actions = append(actions, Action{Type: ActionDeleteLedger, Key: res.Key, Reason: "missing in: storage"})
			}
		}
	}
	summary.PurgeActions = len(actions)
	return summary, actions
}
