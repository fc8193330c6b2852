// Package buckets provides health checks for the registered buckets.
//
// # HTTP Endpoints
//
//   - GET /buckets : Reports provider, default visibility and existence of every bucket.
//   - GET /buckets/:bucket/reconcile : Compares the ledger with the bucket (supports ?prefix= and ?purge=true).
//   - GET /buckets/:bucket/reconcile/key?key=/photos/<id> : Classifies a single key.
//
// Each bucket keeps one reconciler, so both endpoints share an index for
// upload.reconcile_cache_seconds. The reconcile endpoint only plans. Purges
// are applied from the CLI with explicit confirmation.
package buckets
