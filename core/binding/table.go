package binding

import (
	"log"

	"github.com/jmigpin/wm/core/action"
)

// Grabber acquires and releases passive key grabs on the root window.
type Grabber interface {
	GrabKey(ks Keysym, mods Mod) error
	UngrabKey(ks Keysym, mods Mod) error
}

//----------

// Table is an ordered registry of bindings with at most one binding per
// (class, keysym, mods, button). Not safe for concurrent use.
type Table struct {
	ksr      KeysymResolver
	grabber  Grabber // can be nil
	bindings []*Binding
	index    map[key]*Binding
}

// The grabber can be nil; grabs are then done by Attach.
func NewTable(ksr KeysymResolver, g Grabber) *Table {
	return &Table{
		ksr:     ksr,
		grabber: g,
		index:   map[key]*Binding{},
	}
}

//----------

// Bind parses and registers a binding. An existing binding with the same
// trigger is replaced in place. An empty action unbinds: the slot keeps its
// position but is marked unbound and its grab released. Unbinding a
// trigger that was never bound does nothing and returns a nil binding.
func (t *Table) Bind(class Class, desc, actionText string) (*Binding, error) {
	b, err := Parse(class, desc, actionText, t.ksr)
	if err != nil {
		return nil, err
	}
	return t.Insert(b), nil
}

func (t *Table) Insert(b *Binding) *Binding {
	k := b.key()
	old, ok := t.index[k]

	if b.Action.Kind == action.None {
		if !ok {
			return nil
		}
		delete(t.index, k)
		old.Keysym = UnboundKeysym
		old.Mods = UnboundMods
		old.Button = 0
		old.Action = b.Action
		if k.class == Keyboard {
			t.ungrab(k.keysym, k.mods)
		}
		return old
	}

	if ok {
		old.Action = b.Action
		return old
	}

	t.bindings = append(t.bindings, b)
	t.index[k] = b
	if k.class == Keyboard {
		t.grab(k.keysym, k.mods)
	}
	return b
}

//----------

func (t *Table) Lookup(ks Keysym, mods Mod) *Binding {
	return t.index[key{Keyboard, ks, mods, 0}]
}

func (t *Table) LookupButton(class Class, button int, mods Mod) *Binding {
	return t.index[key{class, 0, mods, button}]
}

// Bindings returns all slots in insertion order, including unbound ones.
func (t *Table) Bindings() []*Binding {
	u := make([]*Binding, len(t.bindings))
	copy(u, t.bindings)
	return u
}

func (t *Table) Len() int {
	return len(t.bindings)
}

//----------

// Attach sets the grabber and grabs all active keyboard bindings.
func (t *Table) Attach(g Grabber) {
	t.grabber = g
	for _, b := range t.bindings {
		if b.Class == Keyboard && !b.Unbound() {
			t.grab(b.Keysym, b.Mods)
		}
	}
}

// Detach releases all grabs of active keyboard bindings and clears the
// grabber.
func (t *Table) Detach() {
	for _, b := range t.bindings {
		if b.Class == Keyboard && !b.Unbound() {
			t.ungrab(b.Keysym, b.Mods)
		}
	}
	t.grabber = nil
}

func (t *Table) grab(ks Keysym, mods Mod) {
	if t.grabber == nil {
		return
	}
	if err := t.grabber.GrabKey(ks, mods); err != nil {
		log.Printf("grab key 0x%x mods %v: %v", uint32(ks), mods, err)
	}
}
func (t *Table) ungrab(ks Keysym, mods Mod) {
	if t.grabber == nil {
		return
	}
	if err := t.grabber.UngrabKey(ks, mods); err != nil {
		log.Printf("ungrab key 0x%x mods %v: %v", uint32(ks), mods, err)
	}
}
