package compose

import (
	"context"
	"log/slog"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
	"github.com/phrazzld/storyboard-api/internal/store"
)

// Libraries is a snapshot of the asset libraries used for one composition pass.
type Libraries struct {
	Characters []domain.Asset
	Scenes     []domain.Asset
	Props      []domain.Asset
	Styles     []domain.Style
}

// assets returns the library backing kind.
func (l Libraries) assets(kind domain.ReferenceKind) []domain.Asset {
	switch kind {
	case domain.ReferenceKindCharacter:
		return l.Characters
	case domain.ReferenceKindScene:
		return l.Scenes
	case domain.ReferenceKindProp:
		return l.Props
	}
	return nil
}

// Asset looks up a library asset by kind and id.
func (l Libraries) Asset(kind domain.ReferenceKind, id string) (domain.Asset, bool) {
	for _, a := range l.assets(kind) {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Asset{}, false
}

// Style looks up a style by id.
func (l Libraries) Style(id string) (domain.Style, bool) {
	for _, s := range l.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Style{}, false
}

// Composer builds generation requests from targets.
type Composer struct {
	reader store.AssetReader
	logger *slog.Logger
}

// NewComposer creates a Composer reading libraries through reader.
func NewComposer(reader store.AssetReader, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		reader: reader,
		logger: logger.With("component", "composer"),
	}
}

// LoadLibraries reads every library once. A failed read is logged and
// leaves that library empty.
func (c *Composer) LoadLibraries(ctx context.Context) Libraries {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var lib Libraries
	if c.reader == nil {
		return lib
	}

	load := func(assetType domain.AssetType) []domain.Asset {
		assets, err := c.reader.ListAssets(ctx, assetType)
		if err != nil {
			log.Warn("failed to load asset library, continuing without it",
				slog.String("asset_type", string(assetType)),
				slog.String("error", err.Error()))
			return nil
		}
		return assets
	}

	lib.Characters = load(domain.AssetTypeCharacter)
	lib.Scenes = load(domain.AssetTypeScene)
	lib.Props = load(domain.AssetTypeProp)

	styles, err := c.reader.ListStyles(ctx)
	if err != nil {
		log.Warn("failed to load style library, continuing without it",
			slog.String("error", err.Error()))
	} else {
		lib.Styles = styles
	}

	return lib
}
