// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections from the application's
// configuration. The database is optional: it backs the upload ledger, and
// the service keeps uploading when it is disabled or unreachable.
//
// # Schema Inspection
//
// GetTableColumns reads the live column list of a table. The ledger uses it
// to verify its table when automatic migration is turned off.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Ledger disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "uploaded_objects")
package database
