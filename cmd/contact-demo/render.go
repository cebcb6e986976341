package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/contact-audio/status"
)

const panelWidth = 34

var (
	styleDefault = tcell.StyleDefault
	styleStatic  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDynamic = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSensor  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	stylePanel   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHint    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

// view draws a side projection of the scene (x right, y up) with a status panel
type view struct {
	screen tcell.Screen
	scene  *Scene
	stats  *status.Registry
}

func (v *view) draw(paused, muted bool) {
	v.screen.Clear()
	w, h := v.screen.Size()
	cols := w - panelWidth
	rows := h - 1
	if cols < 10 || rows < 5 {
		v.text(0, 0, "terminal too small", styleDefault)
		v.screen.Show()
		return
	}

	sx := float32(cols) / (2 * sceneHalfWidth)
	sy := float32(rows) / sceneHeight
	toCell := func(x, y float32) (int, int) {
		return int((x + sceneHalfWidth) * sx), rows - 1 - int(y*sy)
	}

	for _, b := range v.scene.bodies {
		body, ok := v.scene.physics.Body(b.entity)
		if !ok {
			continue
		}
		box := body.WorldBox()
		x0, y1 := toCell(box.Min().X(), box.Min().Y())
		x1, y0 := toCell(box.Max().X(), box.Max().Y())
		style := styleDynamic
		if body.Static {
			style = styleStatic
		}
		for y := max(y0, 0); y <= min(y1, rows-1); y++ {
			for x := max(x0, 0); x <= min(x1, cols-1); x++ {
				v.screen.SetContent(x, y, b.glyph, nil, style)
			}
		}
	}

	if pose, ok := v.scene.world.Pose(v.scene.skid); ok {
		x, y := toCell(pose.Position.X(), pose.Position.Y())
		if x >= 0 && x < cols && y >= 0 && y < rows {
			v.screen.SetContent(x, y, '*', nil, styleSensor)
		}
	}

	v.panel(cols+1, paused, muted)
	v.text(0, h-1, "space: drop crates  s: push sled  p: pause  m: mute  q: quit", styleHint)
	v.screen.Show()
}

func (v *view) panel(x int, paused, muted bool) {
	y := 0
	state := "running"
	if paused {
		state = "paused"
	}
	v.text(x, y, fmt.Sprintf("contact-audio  [%s]", state), stylePanel)
	y++
	if muted {
		v.text(x, y, "audio muted", styleHint)
	}
	y += 2
	for _, line := range v.stats.Lines() {
		v.text(x, y, line, styleDefault)
		y++
	}
}

func (v *view) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
