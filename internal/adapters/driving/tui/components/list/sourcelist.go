// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// previewRunes bounds the excerpt shown per source.
const previewRunes = 60

// SourceList shows the spans the last answer was conditioned on.
type SourceList struct {
	sources []domain.TextBlock
	styles  *styles.Styles
	width   int
	limit   int
}

// NewSourceList creates an empty source list showing at most limit entries.
func NewSourceList(s *styles.Styles, limit int) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if limit <= 0 {
		limit = 5
	}
	return &SourceList{styles: s, width: 80, limit: limit}
}

// SetSources replaces the listed spans.
func (l *SourceList) SetSources(sources []domain.TextBlock) {
	l.sources = sources
}

// Len returns the number of spans held.
func (l *SourceList) Len() int {
	return len(l.sources)
}

// SetWidth sets the panel width.
func (l *SourceList) SetWidth(width int) {
	l.width = width
}

// View renders one line per span, most similar first.
func (l *SourceList) View() string {
	if len(l.sources) == 0 {
		return l.styles.Sources.Width(l.width).Render("No sources yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sources (%d):", len(l.sources))
	for i, src := range l.sources {
		if i == l.limit {
			fmt.Fprintf(&b, "\n  … %d more", len(l.sources)-l.limit)
			break
		}
		fmt.Fprintf(&b, "\n  [%d] %s  %s", i+1, label(src), preview(src.Text))
	}
	return l.styles.Sources.Width(l.width).Render(b.String())
}

// label names the span's file and page.
func label(b domain.TextBlock) string {
	name := filepath.Base(b.Source)
	if b.Source == "" {
		name = "corpus"
	}
	if b.Page > 0 {
		return fmt.Sprintf("%s p.%d", name, b.Page)
	}
	return name
}

// preview is the first line of text, shortened.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > previewRunes {
		return string(runes[:previewRunes]) + "…"
	}
	return text
}
