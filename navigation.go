package main

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.panMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

func (m *model) handlePan(key string, speed int) tea.Model {
	v := m.getCurrentView()
	if v == nil {
		return m
	}
	switch key {
	case "h", "left", "H", "shift+left":
		v.Pan(-speed, 0)
	case "l", "right", "L", "shift+right":
		v.Pan(speed, 0)
	case "k", "up", "K", "shift+up":
		v.Pan(0, -speed)
	case "j", "down", "J", "shift+down":
		v.Pan(0, speed)
	}
	m.clampOffset(v)
	return m
}

func (m *model) handleCursorMove(key string, speed int) tea.Model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursor.X -= speed
	case "l", "right", "L", "shift+right":
		m.cursor.X += speed
	case "k", "up", "K", "shift+up":
		m.cursor.Y -= speed
	case "j", "down", "J", "shift+down":
		m.cursor.Y += speed
	}
	m.clampCursor()
	return m
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// visibleRect is the part of the view on screen: the current animation frame
// while playing, otherwise every frame.
func (m *model) visibleRect(v *View) image.Rectangle {
	if m.playing {
		return v.AnimationFrame()
	}
	return v.Bounds()
}

// canvasCells is the terminal area left for pixels.
func (m *model) canvasCells() (int, int) {
	w, h := m.width, m.height-2
	if m.views.Len() > 1 {
		h--
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// clampCursor keeps the cursor on the view and scrolls it into sight.
func (m *model) clampCursor() {
	v := m.getCurrentView()
	if v == nil {
		m.cursor = image.Point{}
		return
	}
	r := m.visibleRect(v)
	m.cursor.X = min(max(m.cursor.X, r.Min.X), r.Max.X-1)
	m.cursor.Y = min(max(m.cursor.Y, r.Min.Y), r.Max.Y-1)

	cols, rows := m.canvasCells()
	z := v.Zoom()
	visW, visH := max(cols/z, 1), max(rows*2/z, 1)
	rel := m.cursor.Sub(r.Min)
	if rel.X < v.Offset.X {
		v.Offset.X = rel.X
	} else if rel.X >= v.Offset.X+visW {
		v.Offset.X = rel.X - visW + 1
	}
	if rel.Y < v.Offset.Y {
		v.Offset.Y = rel.Y
	} else if rel.Y >= v.Offset.Y+visH {
		v.Offset.Y = rel.Y - visH + 1
	}
	m.clampOffset(v)
}

func (m *model) clampOffset(v *View) {
	r := m.visibleRect(v)
	v.Offset.X = min(max(v.Offset.X, 0), max(r.Dx()-1, 0))
	v.Offset.Y = min(max(v.Offset.Y, 0), max(r.Dy()-1, 0))
}
