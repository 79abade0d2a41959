// Package database provides the local durable store.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, transactions
//	├── remotekeys/      # Pagination cursors, one row per remote endpoint
//	├── records/         # Generic synced-entity tables (shops, products, ...)
//	└── settings/        # Application settings (API token, last refresh status)
//
// # Transactions
//
// Every multi-table write of a sync goes through WithTransaction. Repositories
// are stateless wrappers around a *gorm.DB; bind them to a transaction with
// WithTx so cursor and row writes commit or roll back together:
//
//	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
//		if err := keys.WithTx(tx).Delete(endpoint); err != nil {
//			return err
//		}
//		return shops.WithTx(tx).InsertOrReplace(rows)
//	})
//
// # Adding a New Entity
//
//  1. Add a gorm model with a TableName to internal/entities
//  2. Register it in Models
//  3. Create a records.Repository[T] for it
package database
