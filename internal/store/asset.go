package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// AssetReader exposes read-only access to the asset libraries.
// Implementations must return assets in a stable library order, since the
// composer's first-match-wins name resolution depends on it.
type AssetReader interface {
	// ListAssets returns every asset of the given collection.
	// Only character, scene and prop collections are expected to be queried.
	ListAssets(ctx context.Context, assetType domain.AssetType) ([]domain.Asset, error)

	// ListStyles returns every style in the style library.
	ListStyles(ctx context.Context) ([]domain.Style, error)
}

// DBTX abstracts the database access layer. It is implemented by both
// *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
