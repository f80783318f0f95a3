// Routes key and button events to the binding table and dispatches the
// resolved actions. Owns the cycle gesture state machine: a cycle binding
// grabs the keyboard and the gesture lasts until a key other than the
// cycle trigger is released (usually the modifier).
package router

import (
	"log"

	"github.com/jmigpin/wm/core/action"
	"github.com/jmigpin/wm/core/binding"
)

type Display interface {
	// Keysym of the keycode with no modifiers applied (first column).
	Keysym(code uint8) binding.Keysym
	// Clears lock modifiers and pointer button bits from an event state.
	CleanMods(state uint16) binding.Mod

	GrabKeyboard(time uint32) error
	UngrabKeyboard()
	// Releases the frozen keyboard and replays the event to its normal
	// destination.
	ReplayKeyboard(time uint32)
}

type Dispatcher interface {
	Dispatch(a action.Action) error
	EndCycle()
}

//----------

type Event struct {
	Code  uint8
	Mods  uint16
	Press bool
	Time  uint32
}

type ButtonEvent struct {
	Button uint8
	Mods   uint16
	Press  bool
	Time   uint32
}

// State is the cycle session. Trigger is the key that started the active
// gesture, zero when idle.
type State struct {
	Trigger binding.Keysym
}

func (s State) Cycling() bool {
	return s.Trigger != 0
}

//----------

type Router struct {
	table *binding.Table
	disp  Dispatcher
	dpy   Display
	state State

	handling bool
	deferred []func()
}

func NewRouter(t *binding.Table, disp Dispatcher, dpy Display) *Router {
	return &Router{table: t, disp: disp, dpy: dpy}
}

func (r *Router) State() State {
	return r.state
}

func (r *Router) Table() *binding.Table {
	return r.table
}

// Replacing the table while handling an event must be done with Defer.
func (r *Router) SetTable(t *binding.Table) {
	r.table = t
}

//----------

func (r *Router) HandleKey(ev Event) {
	r.handling = true
	defer r.runDeferred()

	ks := r.dpy.Keysym(ev.Code)

	// any key other than the cycle trigger released ends the cycle
	if r.state.Cycling() && !ev.Press && ks != r.state.Trigger {
		r.endCycle(ev)
		return
	}

	b := r.table.Lookup(ks, r.dpy.CleanMods(ev.Mods))
	if b == nil || !ev.Press {
		return
	}

	switch b.Action.Kind {
	case action.Cycle, action.ReverseCycle:
		// keep watching input until the modifier is released
		if err := r.dpy.GrabKeyboard(ev.Time); err != nil {
			log.Printf("cycle: %v", err)
		}
		r.state.Trigger = b.Keysym
	}
	r.dispatch(b)
}

func (r *Router) endCycle(ev Event) {
	r.state = State{}
	r.dpy.UngrabKeyboard()
	r.dpy.ReplayKeyboard(ev.Time)
	r.disp.EndCycle()
}

//----------

// HandleButton dispatches desktop bindings for button presses on the root
// window.
func (r *Router) HandleButton(ev ButtonEvent) {
	r.handling = true
	defer r.runDeferred()

	if !ev.Press {
		return
	}
	b := r.table.LookupButton(binding.Desktop, int(ev.Button), r.dpy.CleanMods(ev.Mods))
	if b == nil {
		return
	}
	r.dispatch(b)
}

// DragBinding resolves a drag binding for a button press on a client
// frame. Nothing is dispatched; moving the client is up to the caller.
func (r *Router) DragBinding(button uint8, state uint16) *binding.Binding {
	return r.table.LookupButton(binding.Drag, int(button), r.dpy.CleanMods(state))
}

func (r *Router) dispatch(b *binding.Binding) {
	if err := r.disp.Dispatch(b.Action); err != nil {
		log.Printf("%v: %v", b, err)
	}
}

//----------

// Defer runs fn after the event being handled is done, or right away if no
// event is being handled. Structural changes to the table (reloads) go
// through here so a lookup never sees a half-replaced table.
func (r *Router) Defer(fn func()) {
	if !r.handling {
		fn()
		return
	}
	r.deferred = append(r.deferred, fn)
}

func (r *Router) runDeferred() {
	r.handling = false
	for len(r.deferred) > 0 {
		fn := r.deferred[0]
		r.deferred = r.deferred[1:]
		fn()
	}
}
