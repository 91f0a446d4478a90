package ui

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/rsync-tui/internal/transfer"
)

// displayRank orders jobs in the pane: live work first, then failures so
// they stay visible, then what has yet to run and what is finished.
var displayRank = map[transfer.Status]int{
	transfer.StatusRunning:   0,
	transfer.StatusFailed:    1,
	transfer.StatusPending:   2,
	transfer.StatusCancelled: 3,
	transfer.StatusCompleted: 4,
}

const (
	jobRowHeight   = 2
	progressBarMin = 10
	progressBarMax = 30
)

// TransfersPane lists every job with its progress.
type TransfersPane struct {
	width, height int
	jobs          []*transfer.Job
	active, limit int
}

func NewTransfersPane() *TransfersPane {
	return &TransfersPane{}
}

// SetSize sets the outer size including borders.
func (p *TransfersPane) SetSize(width, height int) {
	p.width, p.height = width, height
}

// SetJobs takes a snapshot of jobs in display order. Queue order is kept
// within each status.
func (p *TransfersPane) SetJobs(jobs []*transfer.Job, active, limit int) {
	p.jobs = slices.Clone(jobs)
	slices.SortStableFunc(p.jobs, func(a, b *transfer.Job) int {
		return displayRank[a.Status] - displayRank[b.Status]
	})
	p.active, p.limit = active, limit
}

// Jobs returns the jobs in display order.
func (p *TransfersPane) Jobs() []*transfer.Job { return p.jobs }

func jobStyle(s transfer.Status) (lipgloss.Style, string) {
	switch s {
	case transfer.StatusRunning:
		return JobRunningStyle, "↓"
	case transfer.StatusCompleted:
		return JobCompletedStyle, "✓"
	case transfer.StatusFailed:
		return JobFailedStyle, "✕"
	case transfer.StatusCancelled:
		return JobCancelledStyle, "⊘"
	default:
		return JobPendingStyle, "·"
	}
}

func jobName(j *transfer.Job) string {
	name := path.Base(j.Source)
	if name == "/" || name == "." {
		return j.Source
	}
	return name
}

func sizeText(j *transfer.Job) string {
	switch {
	case j.TotalBytes > 0:
		return FormatBytes(j.BytesTransferred) + " / " + FormatBytes(j.TotalBytes)
	case j.BytesTransferred > 0:
		return FormatBytes(j.BytesTransferred)
	}
	return ""
}

// detail is the second line of a job row.
func (p *TransfersPane) detail(j *transfer.Job, width int) string {
	switch j.Status {
	case transfer.StatusRunning:
		barWidth := max(progressBarMin, min(progressBarMax, width/3))
		stats := fmt.Sprintf(" %3d%%  %s  ETA %s", j.Percent, FormatRate(j.RateBps), FormatETA(j.ETA))
		if j.FilesTotal > 1 {
			stats += fmt.Sprintf("  files %d/%d", j.FilesDone, j.FilesTotal)
		}
		return ProgressBar(barWidth, j.Percent) + EntrySizeStyle.Render(Truncate(stats, max(1, width-barWidth)))
	case transfer.StatusFailed:
		return LogErrorStyle.Render(Truncate(j.Reason, width))
	case transfer.StatusPending:
		return EntrySizeStyle.Render(TruncateLeft("queued → "+j.Dest, width))
	case transfer.StatusCancelled:
		msg := "cancelled"
		if j.BytesTransferred > 0 {
			msg += ", R resumes"
		}
		return JobCancelledStyle.Render(msg)
	default:
		return EntrySizeStyle.Render(TruncateLeft("→ "+j.Dest, width))
	}
}

func (p *TransfersPane) row(j *transfer.Job, width int) string {
	style, icon := jobStyle(j.Status)
	right := sizeText(j)
	rw := runewidth.StringWidth(right)
	left := Truncate(icon+" "+jobName(j), max(1, width-rw-1))
	gap := max(1, width-runewidth.StringWidth(left)-rw)
	first := style.Render(left) + strings.Repeat(" ", gap) + EntrySizeStyle.Render(right)
	second := "  " + p.detail(j, max(1, width-2))
	return first + "\n" + second
}

func (p *TransfersPane) title() string {
	if len(p.jobs) == 0 {
		return PanelTitleStyle.Render("Transfers")
	}
	return PanelTitleStyle.Render(fmt.Sprintf("Transfers %d/%d running", p.active, p.limit)) +
		EntrySizeStyle.Render(fmt.Sprintf("  %d total", len(p.jobs)))
}

// View renders the pane.
func (p *TransfersPane) View() string {
	inner := max(1, p.width-BorderSize)
	innerHeight := max(1, p.height-BorderSize)

	lines := []string{p.title()}
	if len(p.jobs) == 0 {
		lines = append(lines, EmptyStyle.Render("  Select entries with space, then press D"))
	}

	room := (innerHeight - 1) / jobRowHeight
	shown := p.jobs
	if len(shown) > room {
		// keep one row for the overflow note
		shown = shown[:max(0, room-1)]
	}
	for _, j := range shown {
		lines = append(lines, p.row(j, inner))
	}
	if hidden := len(p.jobs) - len(shown); hidden > 0 {
		lines = append(lines, EmptyStyle.Render(fmt.Sprintf("  … %d more", hidden)))
	}

	content := lipgloss.NewStyle().MaxHeight(innerHeight).Render(strings.Join(lines, "\n"))
	return PanelStyle.Width(p.width).Height(p.height).Render(content)
}
