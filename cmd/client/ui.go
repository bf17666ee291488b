package main

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/Tyrowin/gocollect/internal/game"
)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelf   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleOther  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleItem   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleText   = tcell.StyleDefault
)

// draw renders the arena scaled to the terminal with a status line below.
func draw(s tcell.Screen, m *model, status string) {
	s.Clear()
	cols, rows := s.Size()
	w, h := cols-2, rows-3
	if w < 8 || h < 4 {
		drawText(s, 0, 0, "terminal too small", styleText)
		s.Show()
		return
	}

	for x := 0; x < w+2; x++ {
		s.SetContent(x, 0, '-', nil, styleBorder)
		s.SetContent(x, h+1, '-', nil, styleBorder)
	}
	for y := 1; y <= h; y++ {
		s.SetContent(0, y, '|', nil, styleBorder)
		s.SetContent(w+1, y, '|', nil, styleBorder)
	}

	cell := func(px, py int) (int, int) {
		cx := clamp(px*w/game.ArenaWidth, 0, w-1)
		cy := clamp(py*h/game.ArenaHeight, 0, h-1)
		return cx + 1, cy + 1
	}

	if m.collectible.ID != "" {
		x, y := cell(m.collectible.X, m.collectible.Y)
		s.SetContent(x, y, '$', nil, styleItem)
	}

	ids := m.players.IDs()
	sort.Strings(ids)
	for _, id := range ids {
		p := m.players[id]
		x, y := cell(p.X, p.Y)
		if id == m.me {
			s.SetContent(x, y, '@', nil, styleSelf)
		} else {
			s.SetContent(x, y, 'o', nil, styleOther)
		}
	}

	line := fmt.Sprintf("score %d  players %d  item value %d  %s", m.score(), len(m.players), m.collectible.Value, status)
	drawText(s, 0, h+2, line, styleText)
	if n := len(m.left); n > 0 {
		drawText(s, 0, h+3, fmt.Sprintf("%s left", shortID(m.left[n-1])), styleText)
	}
	s.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
