// Package store defines the persistence contract for experiment run records.
// A run record captures the configuration a descriptor was evaluated with;
// evaluation results are never stored here. The SQL implementation lives in
// internal/platform/database.
package store
