package binding

import (
	"strings"
)

// Mod values match the X11 modifier mask bits.
type Mod uint16

const (
	ModShift   Mod = 1 << 0
	ModControl Mod = 1 << 2
	ModAlt     Mod = 1 << 3 // mod1
	ModMod2    Mod = 1 << 4
	ModMod3    Mod = 1 << 5
	ModSuper   Mod = 1 << 6 // mod4

	// Bits a binding can hold; lock and mod5 are not bindable.
	ModMask = ModShift | ModControl | ModAlt | ModMod2 | ModMod3 | ModSuper
)

var modAliases = map[string]Mod{
	"shift":   ModShift,
	"control": ModControl,
	"ctrl":    ModControl,
	"ctl":     ModControl,
	"alt":     ModAlt,
	"meta":    ModAlt,
	"mod1":    ModAlt,
	"mod2":    ModMod2,
	"mod3":    ModMod3,
	"super":   ModSuper,
	"win":     ModSuper,
	"mod4":    ModSuper,
}

// ParseMod is case-insensitive.
func ParseMod(name string) (Mod, bool) {
	m, ok := modAliases[strings.ToLower(name)]
	return m, ok
}

func (m Mod) HasAny(m2 Mod) bool {
	return m&m2 > 0
}

func (m Mod) String() string {
	if m == UnboundMods {
		return "unbound"
	}
	names := []struct {
		m Mod
		s string
	}{
		{ModShift, "shift"},
		{ModControl, "control"},
		{ModAlt, "alt"},
		{ModMod2, "mod2"},
		{ModMod3, "mod3"},
		{ModSuper, "super"},
	}
	u := []string{}
	for _, n := range names {
		if m.HasAny(n.m) {
			u = append(u, n.s)
		}
	}
	return strings.Join(u, "+")
}
