package modals

import (
	"os"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/rsync-tui/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)

	SetStyles(Palette{
		Title:          lipgloss.NewStyle(),
		Help:           lipgloss.NewStyle(),
		Primary:        lipgloss.Color("#7C3AED"),
		Secondary:      lipgloss.Color("#06B6D4"),
		Text:           lipgloss.Color("#F9FAFB"),
		Muted:          lipgloss.Color("#B0B8C4"),
		Directory:      lipgloss.Color("#60A5FA"),
		Warning:        lipgloss.Color("#F59E0B"),
		InputWidth:     50,
		InputCharLimit: 256,
		Width:          60,
		HelpRows:       10,
	})

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}
