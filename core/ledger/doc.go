// Package ledger records uploaded objects in a SQL database.
//
// The ledger is optional. When a database is configured, every upload made
// through the service is recorded and every delete forgets its entry, which
// lets the reconciler find orphans left in a bucket and entries whose object
// is gone.
package ledger
