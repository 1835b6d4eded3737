package trade

import (
	"context"
)

// TransactionRepository is the read surface over transactions
type TransactionRepository interface {
	// FindByID returns the transaction header, shared.ErrNotFound if absent
	FindByID(ctx context.Context, id uint) (*Transaction, error)

	// FindDetail loads the header with parties, items and transport details
	FindDetail(ctx context.Context, id uint) (*TransactionDetail, error)

	// ListNumbers returns every non-empty transaction number
	ListNumbers(ctx context.Context) ([]string, error)

	// ExistsNumber reports whether a transaction already uses no
	ExistsNumber(ctx context.Context, no string) (bool, error)
}

// SettingsRepository stores application key/value settings
type SettingsRepository interface {
	// Get returns the value for key, shared.ErrNotFound if absent
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or updates the value for key
	Set(ctx context.Context, key, value string) error
}
