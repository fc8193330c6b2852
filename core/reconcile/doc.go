// Package reconcile compares the upload ledger with the objects actually
// stored in a bucket.
//
// Every key found on either side is classified:
//   - ok: recorded in the ledger and present in the bucket
//   - orphan: present in the bucket but never recorded
//   - dangling: recorded but gone from the bucket
//
// Both sides are loaded concurrently in a single pass: one ledger query and
// one paginated bucket listing, with no per-object HEAD calls. Indices may be
// cached for a TTL, and concurrent builds of the same index are collapsed.
//
// # Purging
//
// With DoPurge, the plan deletes orphans from the bucket and dangling entries
// from the ledger. ApplyPlan runs nothing unless the caller confirmed and did
// not ask for a dry run.
//
//	r := reconcile.New(ledgerStore, client, logger)
//	spec := &reconcile.Spec{Bucket: "photos"}
//	plan, err := r.ReconcileWithPlan(ctx, spec, reconcile.Options{DoPurge: true})
//	executed, err := r.ApplyPlan(ctx, spec, plan, reconcile.Options{DoPurge: true, Confirmed: true})
package reconcile
