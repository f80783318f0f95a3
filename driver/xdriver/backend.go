package xdriver

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/jmigpin/wm/core/wmstate"
	"github.com/jmigpin/wm/driver/xdriver/xutil"
)

// wmstate.Backend

func (d *Display) Focus(w wmstate.Window) {
	xw := xproto.Window(w)
	_ = xproto.SetInputFocus(d.Conn, xproto.InputFocusPointerRoot, xw, xproto.TimeCurrentTime)
	_ = xproto.ConfigureWindow(d.Conn, xw, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

func (d *Display) Map(w wmstate.Window) {
	_ = xproto.MapWindow(d.Conn, xproto.Window(w))
}

func (d *Display) Unmap(w wmstate.Window) {
	d.ownUnmaps[xproto.Window(w)]++
	_ = xproto.UnmapWindow(d.Conn, xproto.Window(w))
}

func (d *Display) Close(w wmstate.Window) {
	d.Wmp.Close(xproto.Window(w))
}

func (d *Display) SetFullscreen(w wmstate.Window, on bool) {
	xw := xproto.Window(w)
	mask := uint16(0 |
		xproto.ConfigWindowX |
		xproto.ConfigWindowY |
		xproto.ConfigWindowWidth |
		xproto.ConfigWindowHeight |
		xproto.ConfigWindowBorderWidth)
	if on {
		if _, ok := d.saved[xw]; ok {
			return
		}
		r, err := d.Geometry(w)
		if err != nil {
			return
		}
		d.saved[xw] = r
		sw, sh := uint32(d.Screen.WidthInPixels), uint32(d.Screen.HeightInPixels)
		_ = xproto.ConfigureWindow(d.Conn, xw, mask, []uint32{0, 0, sw, sh, 0})
		_ = xproto.ConfigureWindow(d.Conn, xw, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
		return
	}
	r, ok := d.saved[xw]
	if !ok {
		return
	}
	delete(d.saved, xw)
	values := []uint32{uint32(r.X), uint32(r.Y), uint32(r.W), uint32(r.H), borderWidth}
	_ = xproto.ConfigureWindow(d.Conn, xw, mask, values)
}

func (d *Display) DrawFrame(w wmstate.Window, focused bool) {
	if _, ok := d.saved[xproto.Window(w)]; ok {
		return // fullscreen, no border
	}
	pixel := d.Screen.WhitePixel
	if focused {
		pixel = d.Screen.BlackPixel
	}
	xutil.SetBorder(d.Conn, xproto.Window(w), borderWidth, pixel)
}

const borderWidth = 1
