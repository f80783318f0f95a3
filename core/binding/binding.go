package binding

import (
	"fmt"
	"strings"

	"github.com/jmigpin/wm/core/action"
	"github.com/jmigpin/wm/core/wmerr"
)

type Class int

const (
	Keyboard Class = iota
	Desktop        // mouse button on the root window
	Drag           // mouse button with modifiers on a client frame
)

func (c Class) String() string {
	switch c {
	case Keyboard:
		return "keyboard"
	case Desktop:
		return "desktop"
	case Drag:
		return "drag"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

func (c Class) IsButton() bool {
	return c == Desktop || c == Drag
}

//----------

type Keysym uint32

// Unbound sentinel: a slot that was unbound keeps its place in the table
// with these values, distinct from "no key" and "no modifiers".
const (
	UnboundKeysym Keysym = 0xffffffff
	UnboundMods   Mod    = 0xffff
)

type KeysymResolver interface {
	// Resolves a symbolic key name ("Tab", "F1", "t", "space").
	ResolveKeysym(name string) (Keysym, bool)
}

//----------

type Binding struct {
	Class  Class
	Keysym Keysym // zero for button bindings
	Mods   Mod
	Button int // 1-9, zero for key bindings
	Action action.Action
}

func (b *Binding) Unbound() bool {
	return b.Keysym == UnboundKeysym && b.Mods == UnboundMods
}

func (b *Binding) key() key {
	return key{b.Class, b.Keysym, b.Mods, b.Button}
}

func (b *Binding) String() string {
	if b.Unbound() {
		return fmt.Sprintf("%v: unbound", b.Class)
	}
	trig := ""
	if b.Button != 0 {
		trig = fmt.Sprintf("mouse%d", b.Button)
	} else {
		trig = fmt.Sprintf("0x%x", uint32(b.Keysym))
	}
	if b.Mods != 0 {
		trig = b.Mods.String() + "+" + trig
	}
	return fmt.Sprintf("%v: %v = %v", b.Class, trig, b.Action)
}

//----------

type key struct {
	class  Class
	keysym Keysym
	mods   Mod
	button int
}

//----------

// Parse parses a descriptor like "shift+alt+f1", "Win+T" or "mouse1" and an
// action text. Nothing is registered; see Table.Bind.
func Parse(class Class, desc, actionText string, ksr KeysymResolver) (*Binding, error) {
	b := &Binding{Class: class}

	// modifiers
	segs := strings.Split(desc, "+")
	for _, s := range segs[:len(segs)-1] {
		m, ok := ParseMod(s)
		if !ok {
			return nil, wmerr.Wrapf(wmerr.ErrUnknownModifier, desc, "%q", s)
		}
		b.Mods |= m
	}

	// key or button
	trig := segs[len(segs)-1]
	if btn, ok := parseButton(trig); ok {
		if !class.IsButton() {
			return nil, wmerr.Wrapf(wmerr.ErrUnknownKey, desc, "button %q in %v binding", trig, class)
		}
		b.Button = btn
	} else {
		if class.IsButton() {
			return nil, wmerr.Wrapf(wmerr.ErrUnknownKey, desc, "key %q in %v binding", trig, class)
		}
		if trig == "" {
			return nil, wmerr.Wrapf(wmerr.ErrUnknownKey, desc, "empty key")
		}
		// "Win+T" is win+t; a capital needs an explicit shift: "Win+Shift+T"
		if len(trig) == 1 {
			trig = strings.ToLower(trig)
		}
		ks, ok := ksr.ResolveKeysym(trig)
		if !ok || ks == 0 {
			return nil, wmerr.Wrapf(wmerr.ErrUnknownKey, desc, "%q", trig)
		}
		b.Keysym = ks
	}

	a, err := action.Parse(desc, actionText)
	if err != nil {
		return nil, err
	}
	b.Action = a
	return b, nil
}

// "mouse" followed by a single digit 1-9
func parseButton(s string) (int, bool) {
	if len(s) != 6 || !strings.EqualFold(s[:5], "mouse") {
		return 0, false
	}
	c := s[5]
	if c < '1' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}
