package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for name, c := range map[string]lipgloss.Color{
		"primary":    theme.Primary,
		"secondary":  theme.Secondary,
		"foreground": theme.Foreground,
		"muted":      theme.Muted,
		"warning":    theme.Warning,
		"error":      theme.Error,
		"border":     theme.Border,
		"status":     theme.StatusBackground,
	} {
		assert.NotEmpty(t, string(c), name)
	}
}

func TestDefaultTheme_SpeakersAreDistinct(t *testing.T) {
	theme := DefaultTheme()
	assert.NotEqual(t, theme.Primary, theme.Secondary)
	assert.NotEqual(t, theme.Error, theme.Warning)
}

func TestNewStyles(t *testing.T) {
	t.Run("with theme", func(t *testing.T) {
		theme := DefaultTheme()
		s := NewStyles(theme)
		require.NotNil(t, s)
		assert.Same(t, theme, s.Theme())
	})

	t.Run("nil theme falls back to default", func(t *testing.T) {
		s := NewStyles(nil)
		require.NotNil(t, s)
		assert.Equal(t, DefaultTheme(), s.Theme())
	})
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()
	assert.Contains(t, s.UserLabel.Render("You"), "You")
	assert.Contains(t, s.Message.Render("hello"), "hello")
	assert.Contains(t, s.Error.Render("boom"), "boom")
}
