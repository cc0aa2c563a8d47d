package compose

import (
	"fmt"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// ResolveStyle applies style precedence: explicit per-call id, then the
// per-item override, then the global default. The first non-empty id
// decides; if it is not in the library no style applies.
func ResolveStyle(explicitID, itemID, globalID string, lib Libraries) (domain.Style, bool) {
	for _, id := range []string{explicitID, itemID, globalID} {
		if id == "" {
			continue
		}
		return lib.Style(id)
	}
	return domain.Style{}, false
}

// styleClause is the trailing prompt clause for style. imagePosition is the
// 1-based position of the style image and is ignored for text styles.
func styleClause(style domain.Style, imagePosition int) string {
	switch style.Kind {
	case domain.StyleKindImage:
		return fmt.Sprintf("Render everything in the art style shown in the %s image.", ordinal(imagePosition))
	case domain.StyleKindText:
		return style.Content
	}
	return ""
}

var ordinalWords = []string{
	"first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth",
}

// ordinal spells n as an English ordinal: words up to ten, then 11th, 21st...
func ordinal(n int) string {
	if n >= 1 && n <= len(ordinalWords) {
		return ordinalWords[n-1]
	}
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
