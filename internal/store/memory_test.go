package store

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAssetStore_ListAssetsKeepsOrder(t *testing.T) {
	t.Parallel()
	s := NewMemoryAssetStore()

	require.NoError(t, s.AddAsset(domain.Asset{ID: "c2", Type: domain.AssetTypeCharacter, Name: "Bob"}))
	require.NoError(t, s.AddAsset(domain.Asset{ID: "c1", Type: domain.AssetTypeCharacter, Name: "Alice"}))
	require.NoError(t, s.AddAsset(domain.Asset{ID: "p1", Type: domain.AssetTypeProp, Name: "Sword"}))

	chars, err := s.ListAssets(context.Background(), domain.AssetTypeCharacter)
	require.NoError(t, err)
	require.Len(t, chars, 2)
	assert.Equal(t, "c2", chars[0].ID)
	assert.Equal(t, "c1", chars[1].ID)

	scenes, err := s.ListAssets(context.Background(), domain.AssetTypeScene)
	require.NoError(t, err)
	assert.Empty(t, scenes)
}

func TestMemoryAssetStore_ListReturnsCopy(t *testing.T) {
	t.Parallel()
	s := NewMemoryAssetStore()
	require.NoError(t, s.AddAsset(domain.Asset{ID: "c1", Type: domain.AssetTypeCharacter, Name: "Alice"}))

	chars, err := s.ListAssets(context.Background(), domain.AssetTypeCharacter)
	require.NoError(t, err)
	chars[0].Name = "mutated"

	again, err := s.ListAssets(context.Background(), domain.AssetTypeCharacter)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again[0].Name)
}

func TestMemoryAssetStore_Errors(t *testing.T) {
	t.Parallel()
	s := NewMemoryAssetStore()

	err := s.AddAsset(domain.Asset{ID: "", Type: domain.AssetTypeProp})
	assert.True(t, errors.Is(err, ErrInvalidEntity))

	require.NoError(t, s.AddAsset(domain.Asset{ID: "p1", Type: domain.AssetTypeProp}))
	err = s.AddAsset(domain.Asset{ID: "p1", Type: domain.AssetTypeProp})
	assert.True(t, errors.Is(err, ErrDuplicate))

	err = s.AddStyle(domain.Style{ID: "s1", Kind: domain.StyleKindImage})
	assert.True(t, errors.Is(err, ErrInvalidEntity))

	_, err = s.ListAssets(context.Background(), domain.AssetType("storyboard"))
	assert.True(t, errors.Is(err, domain.ErrInvalidAssetType))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.ListStyles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	wrapped := NewStoreError("asset", "list", "query failed", ErrNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Contains(t, wrapped.Error(), "list operation on asset failed")

	bare := NewStoreError("style", "get", "missing", nil)
	assert.Equal(t, "get operation on style failed: missing", bare.Error())
}
