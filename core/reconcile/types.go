package reconcile

import "time"

// Status classifies a key after comparing the ledger with the bucket.
type Status string

const (
	// StatusOK marks a key present in both the ledger and the bucket.
	StatusOK Status = "ok"
	// StatusOrphan marks an object in the bucket that the ledger never recorded.
	StatusOrphan Status = "orphan"
	// StatusDangling marks a ledger entry whose object is gone from the bucket.
	StatusDangling Status = "dangling"
)

// Result is the reconciliation output for a single object key.
type Result struct {
	Key            string `json:"key"`
	LedgerPresent  bool   `json:"ledger_present"`
	StoragePresent bool   `json:"storage_present"`
	Status         Status `json:"status"`
}

// Spec selects what a reconciliation compares.
type Spec struct {
	// Bucket is the bucket whose ledger entries and objects are compared.
	Bucket string

	// Prefix restricts both sides to keys under it.
	Prefix string

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey returns a unique key for caching based on spec parameters.
func (s *Spec) CacheKey() string {
	return s.Bucket + "|" + s.Prefix
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionDeleteStorage deletes an orphan object from the bucket.
	ActionDeleteStorage ActionType = "delete_storage"
	// ActionDeleteLedger deletes a dangling entry from the ledger.
	ActionDeleteLedger ActionType = "delete_ledger"
)

// Action represents a planned mutation operation.
type Action struct {
	Type   ActionType `json:"type"`
	Key    string     `json:"key"`
	Reason string     `json:"reason"`
}

// Plan contains reconciliation results and planned actions.
type Plan struct {
	Results []Result    `json:"results"`
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	TotalItems   int `json:"total_items"`
	OK           int `json:"ok"`
	Orphans      int `json:"orphans"`
	Dangling     int `json:"dangling"`
	PurgeActions int `json:"purge_actions"`
}

// Options controls purge behaviour.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge plans deletion of orphans and dangling entries.
	DoPurge bool

	// Confirmed indicates the caller confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
