package modals

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// maxListedSources is how many selected paths the confirm modal lists.
const maxListedSources = 6

// ConfirmDownloadState asks for the destination root of a batch before it
// is queued.
type ConfirmDownloadState struct {
	Sources     []string
	destination string
	form        *huh.Form
}

func (*ConfirmDownloadState) modalState() {}

func (s *ConfirmDownloadState) Title() string {
	if len(s.Sources) == 1 {
		return "Download 1 item"
	}
	return fmt.Sprintf("Download %d items", len(s.Sources))
}

func (s *ConfirmDownloadState) Help() string {
	return "Enter: start download  Esc: cancel"
}

func (s *ConfirmDownloadState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	pathStyle := lipgloss.NewStyle().Foreground(ColorDirectory)
	var lines []string
	for i, src := range s.Sources {
		if i == maxListedSources {
			more := lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
			lines = append(lines, more.Render(fmt.Sprintf("  … and %d more", len(s.Sources)-maxListedSources)))
			break
		}
		lines = append(lines, "  "+pathStyle.Render(shortenPath(src, ModalInputWidth)))
	}
	sources := strings.Join(lines, "\n")

	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, sources, "", s.form.View(), help)
}

func (s *ConfirmDownloadState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = formUpdate(s.form, msg)
	return s, cmd
}

// GetDestination returns the destination root as typed, trimmed.
func (s *ConfirmDownloadState) GetDestination() string {
	return strings.TrimSpace(s.destination)
}

// Validate reports why the batch cannot be queued yet.
func (s *ConfirmDownloadState) Validate() error {
	if len(s.Sources) == 0 {
		return fmt.Errorf("nothing selected")
	}
	if s.GetDestination() == "" {
		return fmt.Errorf("destination is required")
	}
	return nil
}

// NewConfirmDownloadState creates the modal for sources, prefilled with
// destination.
func NewConfirmDownloadState(sources []string, destination string) *ConfirmDownloadState {
	s := &ConfirmDownloadState{
		Sources:     sources,
		destination: destination,
	}

	s.form = newForm(ModalInputWidth,
		huh.NewInput().
			Title("Destination").
			Description("Local directory the selection is mirrored under").
			Prompt("› ").
			Placeholder("~/Downloads").
			CharLimit(ModalInputCharLimit).
			Value(&s.destination),
	)
	return s
}

// shortenPath keeps the tail of p, which is the part that tells paths apart.
func shortenPath(p string, width int) string {
	over := ansi.StringWidth(p) - width
	if over <= 0 {
		return p
	}
	return "…" + ansi.TruncateLeft(p, over+1, "")
}
