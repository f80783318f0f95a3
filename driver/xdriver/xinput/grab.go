package xinput

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/jmigpin/wm/core/binding"
	"github.com/pkg/errors"
)

// Passive key grabs on the root window plus the keyboard grab held during a
// cycle gesture.
type Grabber struct {
	km   *KMap
	root xproto.Window
}

func NewGrabber(km *KMap, root xproto.Window) *Grabber {
	return &Grabber{km: km, root: root}
}

func (g *Grabber) GrabKey(ks binding.Keysym, mods binding.Mod) error {
	kcs := g.km.Keycodes(ks)
	if len(kcs) == 0 {
		return errors.Errorf("grab: no keycode for keysym %v", g.km.KeysymName(ks))
	}
	conn := g.km.xu.Conn()
	for _, kc := range kcs {
		for _, m := range g.km.LockVariants(mods) {
			c := xproto.GrabKeyChecked(conn, true, g.root, m, kc,
				xproto.GrabModeAsync, xproto.GrabModeAsync)
			if err := c.Check(); err != nil {
				return errors.Wrapf(err, "grab %v+%v", mods, g.km.KeysymName(ks))
			}
		}
	}
	return nil
}

func (g *Grabber) UngrabKey(ks binding.Keysym, mods binding.Mod) error {
	conn := g.km.xu.Conn()
	for _, kc := range g.km.Keycodes(ks) {
		for _, m := range g.km.LockVariants(mods) {
			c := xproto.UngrabKeyChecked(conn, kc, g.root, m)
			if err := c.Check(); err != nil {
				return errors.Wrapf(err, "ungrab %v+%v", mods, g.km.KeysymName(ks))
			}
		}
	}
	return nil
}

//----------

// Time is not used: the grab is taken at the server's current time.
func (g *Grabber) GrabKeyboard(time uint32) error {
	return keybind.GrabKeyboard(g.km.xu, g.root)
}

func (g *Grabber) UngrabKeyboard() {
	keybind.UngrabKeyboard(g.km.xu)
}

func (g *Grabber) ReplayKeyboard(time uint32) {
	_ = xproto.AllowEvents(g.km.xu.Conn(), xproto.AllowReplayKeyboard, xproto.Timestamp(time))
}

//----------

// Passive button grab on the root window. Presses over client windows are
// reported to the root with the pointer grabbed until the button release.
func (g *Grabber) GrabButton(button int, mods binding.Mod) error {
	conn := g.km.xu.Conn()
	evMask := uint16(xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskPointerMotion)
	for _, m := range g.km.LockVariants(mods) {
		c := xproto.GrabButtonChecked(conn, false, g.root, evMask,
			xproto.GrabModeAsync, xproto.GrabModeAsync,
			xproto.WindowNone, xproto.CursorNone, byte(button), m)
		if err := c.Check(); err != nil {
			return errors.Wrapf(err, "grab %v+mouse%d", mods, button)
		}
	}
	return nil
}

func (g *Grabber) UngrabButtons() {
	_ = xproto.UngrabButton(g.km.xu.Conn(), xproto.ButtonIndexAny, g.root, xproto.ModMaskAny)
}

// Releases every key grab on the root window, including grabs taken with a
// keyboard mapping that has since changed.
func (g *Grabber) UngrabKeys() {
	_ = xproto.UngrabKey(g.km.xu.Conn(), xproto.GrabAny, g.root, xproto.ModMaskAny)
}
