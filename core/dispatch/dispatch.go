package dispatch

import (
	"github.com/pkg/errors"

	"github.com/jmigpin/wm/core/action"
	"github.com/jmigpin/wm/core/wmerr"
)

type Client interface {
	Iconified() bool
	Fullscreen() bool
}

// WM is the client list and desk model the dispatcher acts on.
type WM interface {
	Focused() Client // nil if nothing is focused
	Focus(c Client, force bool)
	// Next client to focus after the anchor, nil at the end of the list.
	NextForFocus(anchor Client, reverse bool) Client
	InvertOrder()
	RedrawUnfocused(c Client)

	Iconify(c Client)
	Uniconify(c Client)
	Fullscreen(c Client)
	Unfullscreen(c Client)
	SendClose(c Client)
	SetDesk(c Client, desk int)

	GotoDesk(desk int)
	CurrentDesk() int
	DeskCount() int

	ShowLauncher()
	Teardown()
	Shutdown()
}

type Procs interface {
	Spawn(cmd string) error
	ReExec() error
}

//----------

type Dispatcher struct {
	wm    WM
	procs Procs

	anchor Client // cycle anchor, weak
}

func NewDispatcher(wm WM, procs Procs) *Dispatcher {
	return &Dispatcher{wm: wm, procs: procs}
}

func (d *Dispatcher) Anchor() Client {
	return d.anchor
}

//----------

func (d *Dispatcher) Dispatch(a action.Action) error {
	wm := d.wm
	switch a.Kind {
	case action.Cycle, action.ReverseCycle:
		d.cycle(a.Kind == action.ReverseCycle)
	case action.Desk:
		wm.GotoDesk(a.Int)
	case action.DeskNext:
		if cur := wm.CurrentDesk(); cur < wm.DeskCount()-1 {
			wm.GotoDesk(cur + 1)
		}
	case action.DeskPrevious:
		if cur := wm.CurrentDesk(); cur > 0 {
			wm.GotoDesk(cur - 1)
		}
	case action.MoveNext:
		d.move(wm.CurrentDesk() + 1)
	case action.MovePrevious:
		d.move(wm.CurrentDesk() - 1)
	case action.Move:
		d.move(a.Int)
	case action.Close:
		if c := wm.Focused(); c != nil {
			wm.SendClose(c)
		}
	case action.Exec:
		if err := d.procs.Spawn(a.Str); err != nil {
			return errors.Wrap(err, "exec")
		}
	case action.Launcher:
		wm.ShowLauncher()
	case action.Restart:
		wm.Teardown()
		if err := d.procs.ReExec(); err != nil {
			return errors.Wrap(err, "restart")
		}
	case action.Quit:
		wm.Shutdown()
	case action.Fullscreen:
		if c := wm.Focused(); c != nil {
			if c.Fullscreen() {
				wm.Unfullscreen(c)
			} else {
				wm.Fullscreen(c)
			}
		}
	case action.Iconify:
		if c := wm.Focused(); c != nil {
			wm.Iconify(c)
		}
	default:
		return errors.Wrapf(wmerr.ErrDispatchUnhandled, "%v", a.Kind)
	}
	return nil
}

func (d *Dispatcher) cycle(reverse bool) {
	wm := d.wm
	if d.anchor == nil {
		d.anchor = wm.Focused()
		if d.anchor == nil {
			return
		}
	}
	if next := wm.NextForFocus(d.anchor, reverse); next != nil {
		wm.Focus(next, true)
		return
	}
	// end of the list: invert it and start over from the anchor
	prev := wm.Focused()
	wm.InvertOrder()
	if prev != nil {
		wm.RedrawUnfocused(prev)
	}
	wm.Focus(d.anchor, true)
}

func (d *Dispatcher) move(desk int) {
	c := d.wm.Focused()
	if c == nil {
		return
	}
	d.wm.SetDesk(c, desk)
	d.wm.GotoDesk(d.wm.CurrentDesk())
}

//----------

// EndCycle clears the cycle anchor. A client focused while iconified during
// the cycle is restored.
func (d *Dispatcher) EndCycle() {
	if d.anchor == nil {
		return
	}
	d.anchor = nil
	if c := d.wm.Focused(); c != nil && c.Iconified() {
		d.wm.Uniconify(c)
	}
}
