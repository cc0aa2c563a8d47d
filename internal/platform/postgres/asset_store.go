package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
	"github.com/phrazzld/storyboard-api/internal/store"
)

// PostgresAssetStore implements the store.AssetReader interface
// using a PostgreSQL database as the storage backend.
type PostgresAssetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAssetStore creates a new PostgreSQL implementation of the AssetReader interface.
// If logger is nil, a default logger will be used.
func NewPostgresAssetStore(db store.DBTX, logger *slog.Logger) *PostgresAssetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAssetStore{
		db:     db,
		logger: logger.With(slog.String("component", "asset_store")),
	}
}

// Ensure PostgresAssetStore implements store.AssetReader interface
var _ store.AssetReader = (*PostgresAssetStore)(nil)

// ListAssets implements store.AssetReader.ListAssets.
// Rows are returned in library order (sort_order, then creation time).
func (s *PostgresAssetStore) ListAssets(
	ctx context.Context,
	assetType domain.AssetType,
) ([]domain.Asset, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !assetType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAssetType, assetType)
	}

	query := `
		SELECT id, asset_type, name, image_url
		FROM assets
		WHERE asset_type = $1
		ORDER BY sort_order ASC, created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(assetType))
	if err != nil {
		log.Error("failed to query assets",
			slog.String("error", err.Error()),
			slog.String("asset_type", string(assetType)),
			slog.Bool("migrations_missing", IsUndefinedTable(err)))
		return nil, store.NewStoreError("asset", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	assets := make([]domain.Asset, 0)
	for rows.Next() {
		var (
			asset    domain.Asset
			typ      string
			imageURL sql.NullString
		)
		if err := rows.Scan(&asset.ID, &typ, &asset.Name, &imageURL); err != nil {
			log.Error("failed to scan asset row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("asset", "list", "scan failed", err)
		}
		asset.Type = domain.AssetType(typ)
		asset.ImageURL = imageURL.String
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating asset rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("asset", "list", "row iteration failed", err)
	}

	log.Debug("listed assets",
		slog.String("asset_type", string(assetType)),
		slog.Int("count", len(assets)))
	return assets, nil
}

// ListStyles implements store.AssetReader.ListStyles.
// Rows that fail domain validation are skipped with a warning.
func (s *PostgresAssetStore) ListStyles(ctx context.Context) ([]domain.Style, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, kind, image_url, content
		FROM styles
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query styles",
			slog.String("error", err.Error()),
			slog.Bool("migrations_missing", IsUndefinedTable(err)))
		return nil, store.NewStoreError("style", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	styles := make([]domain.Style, 0)
	for rows.Next() {
		var (
			style    domain.Style
			kind     string
			imageURL sql.NullString
			content  sql.NullString
		)
		if err := rows.Scan(&style.ID, &style.Name, &kind, &imageURL, &content); err != nil {
			log.Error("failed to scan style row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("style", "list", "scan failed", err)
		}
		style.Kind = domain.StyleKind(kind)
		style.ImageURL = imageURL.String
		style.Content = content.String

		if err := style.Validate(); err != nil {
			log.Warn("skipping invalid style",
				slog.String("style_id", style.ID),
				slog.String("error", err.Error()))
			continue
		}
		styles = append(styles, style)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating style rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("style", "list", "row iteration failed", err)
	}

	return styles, nil
}
