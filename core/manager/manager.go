// Window manager session: connects the X display, the binding table, the
// router and the dispatcher, and runs the event loop.
package manager

import (
	"log"

	"github.com/jmigpin/wm/core/action"
	"github.com/jmigpin/wm/core/binding"
	"github.com/jmigpin/wm/core/config"
	"github.com/jmigpin/wm/core/dispatch"
	"github.com/jmigpin/wm/core/router"
	"github.com/jmigpin/wm/core/wmstate"
	"github.com/jmigpin/wm/driver/xdriver"
	"github.com/jmigpin/wm/util/osutil"
	"github.com/pkg/errors"
)

type Options struct {
	ConfigPath string
	Desks      int // overrides the config value if > 0
	Watch      bool
}

type Manager struct {
	opt *Options
	cfg *config.Config

	dpy    *xdriver.Display
	state  *wmstate.State
	disp   *dispatch.Dispatcher
	router *router.Router
	procs  *osutil.Procs

	watcher *config.Watcher
	drag    *drag
	quit    bool
}

func NewManager(opt *Options) (*Manager, error) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opt.Desks > 0 {
		cfg.Desks = opt.Desks
	}

	dpy, err := xdriver.NewDisplay()
	if err != nil {
		return nil, err
	}
	if err := dpy.BecomeWM(); err != nil {
		dpy.Disconnect()
		return nil, err
	}

	m := &Manager{opt: opt, cfg: cfg, dpy: dpy, procs: &osutil.Procs{}}

	m.state = wmstate.NewState(cfg.Desks, dpy)
	m.state.OnLauncher = m.showLauncher
	m.state.OnTeardown = m.teardown
	m.state.OnShutdown = m.shutdown

	m.disp = dispatch.NewDispatcher(m.state, m.procs)

	t := m.buildTable(cfg)
	m.router = router.NewRouter(t, m.disp, dpy)

	if opt.Watch {
		w, err := config.NewWatcher(opt.ConfigPath)
		if err != nil {
			log.Printf("config watcher: %v", err)
		} else {
			m.watcher = w
		}
	}

	m.manageExisting()
	return m, nil
}

//----------

func (m *Manager) Run() error {
	var wevs <-chan interface{}
	if m.watcher != nil {
		wevs = m.watcher.Events()
	}
	for !m.quit {
		select {
		case ev := <-m.dpy.Events():
			if err := m.handleDisplayEvent(ev); err != nil {
				if m.quit {
					return nil
				}
				return err
			}
		case ev, ok := <-wevs:
			if !ok {
				wevs = nil
				continue
			}
			m.handleWatcherEvent(ev)
		}
	}
	return nil
}

func (m *Manager) handleDisplayEvent(ev interface{}) error {
	switch t := ev.(type) {
	case error:
		log.Printf("x: %v", t)
	case *xdriver.Closed:
		return errors.New("display connection closed")

	case router.Event:
		m.router.HandleKey(t)
	case *xdriver.ButtonPress:
		m.buttonPress(t)
	case *xdriver.Motion:
		m.dragMotion(t)
	case *xdriver.ButtonRelease:
		if m.drag != nil && m.drag.button == t.Button {
			m.drag = nil
		}

	case *xdriver.MapRequest:
		m.state.Add(t.Win)
	case *xdriver.UnmapNotify:
		// a client withdrawing its window
		if !m.dpy.OwnUnmap(t.Win) {
			m.forget(t.Win)
		}
	case *xdriver.DestroyNotify:
		m.forget(t.Win)
	case *xdriver.MappingNotify:
		if err := m.dpy.KMap.ReadMapping(); err != nil {
			log.Printf("keyboard mapping: %v", err)
			return nil
		}
		m.applyConfig(m.cfg)
	default:
		log.Printf("unhandled event: %T", ev)
	}
	return nil
}

func (m *Manager) forget(w wmstate.Window) {
	if m.drag != nil && m.drag.win == w {
		m.drag = nil
	}
	m.state.Remove(w)
	m.dpy.Forget(w)
}

func (m *Manager) manageExisting() {
	wins, err := m.dpy.ExistingWindows()
	if err != nil {
		log.Printf("existing windows: %v", err)
		return
	}
	for _, w := range wins {
		m.state.Add(w)
	}
}

//----------

func (m *Manager) handleWatcherEvent(ev interface{}) {
	switch t := ev.(type) {
	case error:
		log.Printf("config watcher: %v", t)
	case *config.Event:
		if !t.Op.HasAny(config.Modify) {
			return
		}
		cfg, err := config.Load(m.opt.ConfigPath)
		if err != nil {
			log.Printf("reload: %v", err)
			return
		}
		if cfg.Desks != m.cfg.Desks {
			log.Printf("reload: desk count changes need a restart")
		}
		m.applyConfig(cfg)
	}
}

// Replaces the binding table. Grabs of the old table are released before
// the new ones are taken, after any event being handled.
func (m *Manager) applyConfig(cfg *config.Config) {
	m.router.Defer(func() {
		m.router.Table().Detach()
		m.dpy.Grabber.UngrabKeys()
		m.dpy.Grabber.UngrabButtons()
		m.router.SetTable(m.buildTable(cfg))
		m.cfg = cfg
	})
}

func (m *Manager) buildTable(cfg *config.Config) *binding.Table {
	t, errs := config.BuildTable(cfg, m.dpy, m.dpy)
	if len(errs) > 0 {
		log.Printf("config: %d lines skipped", len(errs))
	}
	for _, b := range t.Bindings() {
		if b.Class != binding.Drag || b.Unbound() {
			continue
		}
		if err := m.dpy.Grabber.GrabButton(b.Button, b.Mods); err != nil {
			log.Printf("%v: %v", b, err)
		}
	}
	return t
}

//----------

func (m *Manager) buttonPress(ev *xdriver.ButtonPress) {
	if ev.Win == 0 {
		m.router.HandleButton(ev.Button)
		return
	}
	b := m.router.DragBinding(ev.Button.Button, ev.Button.Mods)
	c := m.state.Client(ev.Win)
	if b == nil || c == nil {
		return
	}
	m.state.Focus(c, false)
	if b.Action.Kind != action.Drag {
		// other actions apply to the client under the pointer
		if err := m.disp.Dispatch(b.Action); err != nil {
			log.Printf("%v: %v", b, err)
		}
		return
	}
	r, err := m.dpy.Geometry(ev.Win)
	if err != nil {
		return
	}
	m.drag = &drag{win: ev.Win, button: ev.Button.Button, x0: ev.X, y0: ev.Y, r: r}
}

func (m *Manager) dragMotion(ev *xdriver.Motion) {
	d := m.drag
	if d == nil {
		return
	}
	x, y := d.position(ev.X, ev.Y)
	m.dpy.MoveWindow(d.win, x, y)
}

type drag struct {
	win    wmstate.Window
	button uint8
	x0, y0 int // pointer at the press
	r      xdriver.Rect
}

func (d *drag) position(x, y int) (int, int) {
	return d.r.X + x - d.x0, d.r.Y + y - d.y0
}

//----------

func (m *Manager) showLauncher() {
	if m.cfg.Launcher == "" {
		log.Printf("launcher: no command configured")
		return
	}
	if err := m.procs.SpawnArgs(m.cfg.Launcher); err != nil {
		log.Printf("launcher: %v", err)
	}
}

// Releases the server resources so another instance can take over.
func (m *Manager) teardown() {
	m.router.Table().Detach()
	m.dpy.Grabber.UngrabButtons()
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.dpy.Disconnect()
}

func (m *Manager) shutdown() {
	m.teardown()
	m.quit = true
}

