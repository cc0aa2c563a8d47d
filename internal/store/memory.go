package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// MemoryAssetStore is an in-memory AssetReader. Assets keep insertion order.
type MemoryAssetStore struct {
	mu     sync.RWMutex
	assets map[domain.AssetType][]domain.Asset
	styles []domain.Style
}

// NewMemoryAssetStore creates an empty store.
func NewMemoryAssetStore() *MemoryAssetStore {
	return &MemoryAssetStore{
		assets: make(map[domain.AssetType][]domain.Asset),
	}
}

// Ensure MemoryAssetStore implements AssetReader
var _ AssetReader = (*MemoryAssetStore)(nil)

// AddAsset appends an asset to its collection.
// Returns ErrDuplicate if the id already exists in that collection.
func (s *MemoryAssetStore) AddAsset(asset domain.Asset) error {
	if asset.ID == "" || !asset.Type.IsValid() {
		return fmt.Errorf("%w: asset needs an id and a valid type", ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assets[asset.Type] {
		if existing.ID == asset.ID {
			return fmt.Errorf("%w: %s %s", ErrDuplicate, asset.Type, asset.ID)
		}
	}
	s.assets[asset.Type] = append(s.assets[asset.Type], asset)
	return nil
}

// AddStyle appends a style to the style library.
func (s *MemoryAssetStore) AddStyle(style domain.Style) error {
	if err := style.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.styles {
		if existing.ID == style.ID {
			return fmt.Errorf("%w: style %s", ErrDuplicate, style.ID)
		}
	}
	s.styles = append(s.styles, style)
	return nil
}

// ListAssets implements AssetReader.
func (s *MemoryAssetStore) ListAssets(ctx context.Context, assetType domain.AssetType) ([]domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !assetType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAssetType, assetType)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Asset, len(s.assets[assetType]))
	copy(out, s.assets[assetType])
	return out, nil
}

// ListStyles implements AssetReader.
func (s *MemoryAssetStore) ListStyles(ctx context.Context) ([]domain.Style, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Style, len(s.styles))
	copy(out, s.styles)
	return out, nil
}
