package mocks

import (
	"context"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/store"
)

// MockAssetReader implements store.AssetReader for testing
type MockAssetReader struct {
	ListAssetsFn func(ctx context.Context, assetType domain.AssetType) ([]domain.Asset, error)
	ListStylesFn func(ctx context.Context) ([]domain.Style, error)

	// Default response values
	Assets map[domain.AssetType][]domain.Asset
	Styles []domain.Style
	Err    error
}

// Ensure MockAssetReader implements store.AssetReader
var _ store.AssetReader = (*MockAssetReader)(nil)

// ListAssets implements the store.AssetReader interface
func (m *MockAssetReader) ListAssets(ctx context.Context, assetType domain.AssetType) ([]domain.Asset, error) {
	if m.ListAssetsFn != nil {
		return m.ListAssetsFn(ctx, assetType)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Assets[assetType], nil
}

// ListStyles implements the store.AssetReader interface
func (m *MockAssetReader) ListStyles(ctx context.Context) ([]domain.Style, error) {
	if m.ListStylesFn != nil {
		return m.ListStylesFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Styles, nil
}
