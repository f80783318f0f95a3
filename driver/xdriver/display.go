package xdriver

import (
	"log"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/jmigpin/wm/core/binding"
	"github.com/jmigpin/wm/core/router"
	"github.com/jmigpin/wm/core/wmstate"
	"github.com/jmigpin/wm/driver/xdriver/wmprotocols"
	"github.com/jmigpin/wm/driver/xdriver/xinput"
	"github.com/pkg/errors"
)

// Display is the connection to the X server acting as the window manager
// of the default screen. It implements the key resolution, grabbing and
// window effects the core packages consume.
type Display struct {
	XU     *xgbutil.XUtil
	Conn   *xgb.Conn
	Screen *xproto.ScreenInfo
	Root   xproto.Window

	KMap    *xinput.KMap
	Grabber *xinput.Grabber
	Wmp     *wmprotocols.WMP

	// geometry of fullscreen windows before going fullscreen
	saved map[xproto.Window]Rect
	// unmaps requested by us, their notifications are not withdrawals
	ownUnmaps map[xproto.Window]int

	closeOnce sync.Once
	events    chan interface{}
}

func NewDisplay() (*Display, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "x conn")
	}
	d := &Display{
		XU:        xu,
		Conn:      xu.Conn(),
		Screen:    xu.Screen(),
		Root:      xu.RootWin(),
		saved:     map[xproto.Window]Rect{},
		ownUnmaps: map[xproto.Window]int{},
		events:    make(chan interface{}, 8),
	}
	if err := d.initialize(); err != nil {
		d.Conn.Close()
		return nil, errors.Wrap(err, "display init")
	}
	return d, nil
}

func (d *Display) initialize() error {
	km, err := xinput.NewKMap(d.XU)
	if err != nil {
		return err
	}
	d.KMap = km
	d.Grabber = xinput.NewGrabber(km, d.Root)

	wmp, err := wmprotocols.NewWMP(d.XU)
	if err != nil {
		return err
	}
	d.Wmp = wmp
	return nil
}

// BecomeWM selects substructure redirection on the root window and starts
// delivering events. Fails if another window manager is running.
func (d *Display) BecomeWM() error {
	var evMask uint32 = 0 |
		xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskButtonPress |
		0
	c := xproto.ChangeWindowAttributesChecked(d.Conn, d.Root, xproto.CwEventMask, []uint32{evMask})
	if err := c.Check(); err != nil {
		return errors.Wrap(err, "another window manager is running")
	}
	go d.eventLoop()
	return nil
}

func (d *Display) Disconnect() error {
	d.closeOnce.Do(func() {
		d.Conn.Close()
	})
	return nil
}

func (d *Display) Events() <-chan interface{} {
	return d.events
}

//----------

func (d *Display) eventLoop() {
	for {
		ev, xerr := d.Conn.WaitForEvent()
		if ev == nil && xerr == nil {
			d.events <- &Closed{}
			return
		}
		if xerr != nil {
			d.events <- error(xerr)
		}
		if ev != nil {
			if ev2 := d.translate(ev); ev2 != nil {
				d.events <- ev2
			}
		}
	}
}

func (d *Display) translate(ev xgb.Event) interface{} {
	switch t := ev.(type) {
	case xproto.KeyPressEvent:
		return router.Event{Code: uint8(t.Detail), Mods: t.State, Press: true, Time: uint32(t.Time)}
	case xproto.KeyReleaseEvent:
		return router.Event{Code: uint8(t.Detail), Mods: t.State, Press: false, Time: uint32(t.Time)}
	case xproto.ButtonPressEvent:
		return &ButtonPress{
			Win:    wmstate.Window(t.Child),
			Button: router.ButtonEvent{Button: uint8(t.Detail), Mods: t.State, Press: true, Time: uint32(t.Time)},
			X:      int(t.RootX),
			Y:      int(t.RootY),
		}
	case xproto.ButtonReleaseEvent:
		return &ButtonRelease{Button: uint8(t.Detail)}
	case xproto.MotionNotifyEvent:
		return &Motion{X: int(t.RootX), Y: int(t.RootY)}

	case xproto.MapRequestEvent:
		return &MapRequest{Win: wmstate.Window(t.Window)}
	case xproto.UnmapNotifyEvent:
		return &UnmapNotify{Win: wmstate.Window(t.Window)}
	case xproto.DestroyNotifyEvent:
		return &DestroyNotify{Win: wmstate.Window(t.Window)}
	case xproto.ConfigureRequestEvent:
		d.configureRequest(&t)
	case xproto.MappingNotifyEvent: // keyboard mapping
		if t.Request != xproto.MappingPointer {
			return &MappingNotify{}
		}

	case xproto.MapNotifyEvent, xproto.ConfigureNotifyEvent, xproto.CreateNotifyEvent:
	default:
		log.Printf("unhandled event: %#v", ev)
	}
	return nil
}

// Windows are not laid out: configure requests are granted as asked.
func (d *Display) configureRequest(ev *xproto.ConfigureRequestEvent) {
	mask := ev.ValueMask &^ (xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode)
	values := []uint32{}
	add := func(m uint16, v uint32) {
		if mask&m != 0 {
			values = append(values, v)
		}
	}
	// mask/values order is defined by the protocol
	add(xproto.ConfigWindowX, uint32(ev.X))
	add(xproto.ConfigWindowY, uint32(ev.Y))
	add(xproto.ConfigWindowWidth, uint32(ev.Width))
	add(xproto.ConfigWindowHeight, uint32(ev.Height))
	add(xproto.ConfigWindowBorderWidth, uint32(ev.BorderWidth))
	_ = xproto.ConfigureWindow(d.Conn, ev.Window, mask, values)
}

//----------

// Mapped top level windows that existed before the window manager started.
func (d *Display) ExistingWindows() ([]wmstate.Window, error) {
	tree, err := xproto.QueryTree(d.Conn, d.Root).Reply()
	if err != nil {
		return nil, err
	}
	u := []wmstate.Window{}
	for _, w := range tree.Children {
		attr, err := xproto.GetWindowAttributes(d.Conn, w).Reply()
		if err != nil {
			continue
		}
		if attr.OverrideRedirect || attr.MapState != xproto.MapStateViewable {
			continue
		}
		u = append(u, wmstate.Window(w))
	}
	return u, nil
}

// Reports whether an unmap notification was caused by the window manager
// itself (iconify, desk switch). Must be called once per notification.
func (d *Display) OwnUnmap(w wmstate.Window) bool {
	xw := xproto.Window(w)
	if d.ownUnmaps[xw] == 0 {
		return false
	}
	d.ownUnmaps[xw]--
	return true
}

func (d *Display) Forget(w wmstate.Window) {
	delete(d.ownUnmaps, xproto.Window(w))
	delete(d.saved, xproto.Window(w))
}

func (d *Display) Geometry(w wmstate.Window) (Rect, error) {
	g, err := xproto.GetGeometry(d.Conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return Rect{}, err
	}
	return Rect{int(g.X), int(g.Y), int(g.Width), int(g.Height)}, nil
}

func (d *Display) MoveWindow(w wmstate.Window, x, y int) {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	_ = xproto.ConfigureWindow(d.Conn, xproto.Window(w), mask, []uint32{uint32(x), uint32(y)})
}

//----------

type Rect struct {
	X, Y, W, H int
}

//----------

// Events delivered by Events(), besides router.Event and errors.

type Closed struct{}

type ButtonPress struct {
	Win    wmstate.Window // client under the pointer, zero for the root
	Button router.ButtonEvent
	X, Y   int
}

type ButtonRelease struct {
	Button uint8
}

type Motion struct {
	X, Y int
}

type MapRequest struct {
	Win wmstate.Window
}

type UnmapNotify struct {
	Win wmstate.Window
}

type DestroyNotify struct {
	Win wmstate.Window
}

type MappingNotify struct{}

//----------

// binding.KeysymResolver, binding.Grabber and router.Display

func (d *Display) ResolveKeysym(name string) (binding.Keysym, bool) {
	return d.KMap.ResolveKeysym(name)
}
func (d *Display) Keysym(code uint8) binding.Keysym {
	return d.KMap.Keysym(code)
}
func (d *Display) CleanMods(state uint16) binding.Mod {
	return d.KMap.CleanMods(state)
}

func (d *Display) GrabKey(ks binding.Keysym, mods binding.Mod) error {
	return d.Grabber.GrabKey(ks, mods)
}
func (d *Display) UngrabKey(ks binding.Keysym, mods binding.Mod) error {
	return d.Grabber.UngrabKey(ks, mods)
}

func (d *Display) GrabKeyboard(time uint32) error {
	return d.Grabber.GrabKeyboard(time)
}
func (d *Display) UngrabKeyboard() {
	d.Grabber.UngrabKeyboard()
}
func (d *Display) ReplayKeyboard(time uint32) {
	d.Grabber.ReplayKeyboard(time)
}
