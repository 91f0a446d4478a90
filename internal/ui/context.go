package ui

import "github.com/zhubert/rsync-tui/internal/logger"

// Layout is the pane geometry for one terminal size. The app recomputes it
// on every resize and hands each pane its rectangle.
type Layout struct {
	Width, Height int

	ContentHeight   int // rows between header and footer
	BrowserWidth    int
	SideWidth       int
	TransfersHeight int
	LogHeight       int
}

// ComputeLayout splits a width x height terminal into the browser column and
// the transfers/log column. Sizes below the minimum are clamped so no pane
// ever gets a negative dimension.
func ComputeLayout(width, height int) Layout {
	width = max(width, MinTerminalWidth)
	height = max(height, MinTerminalHeight)

	l := Layout{Width: width, Height: height}
	l.ContentHeight = height - HeaderHeight - FooterHeight
	l.BrowserWidth = width * BrowserWidthPercent / 100
	l.SideWidth = width - l.BrowserWidth
	l.TransfersHeight = max(l.ContentHeight*TransfersHeightPercent/100, BorderSize+1)
	l.LogHeight = l.ContentHeight - l.TransfersHeight

	logger.WithComponent("ui").Debug("layout",
		"width", width,
		"height", height,
		"browser", l.BrowserWidth,
		"side", l.SideWidth,
		"transfers", l.TransfersHeight,
		"log", l.LogHeight,
	)
	return l
}
