// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration.
//
// # Connect
//
// Connect establishes a connection, applies pool settings and pings the server.
// SQLite connections are pinned to a single connection so that in-memory databases
// survive for the lifetime of the handle.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition. The migrate
// command uses them to verify the event store after AutoMigrate.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "events", []string{"id", "title"})
package database
