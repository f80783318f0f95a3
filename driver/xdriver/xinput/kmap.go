package xinput

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/jmigpin/wm/core/binding"
)

// $ man keymaps
// https://tronche.com/gui/x/xlib/input/XGetKeyboardMapping.html
// https://tronche.com/gui/x/xlib/input/keyboard-encoding.html

// xproto.Keycode is a physical key.
// xproto.Keysym is the encoding of a symbol on the cap of a key.
// A list of keysyms is associated with each keycode. Bindings only look at
// the first one (no modifiers applied).

//----------

// Keyboard mapping
type KMap struct {
	xu *xgbutil.XUtil

	// modifier mask of the group holding Num_Lock (usually Mod2)
	numLock uint16
}

func NewKMap(xu *xgbutil.XUtil) (*KMap, error) {
	km := &KMap{xu: xu}
	if err := km.ReadMapping(); err != nil {
		return nil, err
	}
	return km, nil
}

//----------

// Reads the keyboard and modifier mappings. Must be called again on
// MappingNotify.
func (km *KMap) ReadMapping() error {
	si := km.xu.Setup()
	count := byte(si.MaxKeycode - si.MinKeycode + 1)
	if count <= 0 {
		return fmt.Errorf("bad keycode count: %v", count)
	}
	kreply, err := xproto.GetKeyboardMapping(km.xu.Conn(), si.MinKeycode, count).Reply()
	if err != nil {
		return err
	}
	if kreply.KeysymsPerKeycode < 1 {
		return fmt.Errorf("keysyms per keycode < 1")
	}
	mreply, err := xproto.GetModifierMapping(km.xu.Conn()).Reply()
	if err != nil {
		return err
	}
	// keep the keybind package in sync, its lookups use these
	keybind.KeyMapSet(km.xu, kreply)
	keybind.ModMapSet(km.xu, mreply)

	km.readModMapping(mreply)
	return nil
}

func (km *KMap) readModMapping(modMap *xproto.GetModifierMappingReply) {
	// 8 modifiers groups, that can have n keycodes
	//0	Shift
	//1	Lock (Caps Lock)
	//2	Control
	//--- detect
	//3	Mod1 (Usually Alt)
	//4	Mod2 (Often Num Lock)
	//5	Mod3 (Rarely used)
	//6	Mod4 (Often Super/Meta)
	//7	Mod5 (Often AltGr)

	const xkNumLock = 0xff7f

	km.numLock = xproto.ModMask2 // default

	stride := int(modMap.KeycodesPerModifier)
	perKc := keybind.KeyMapGet(km.xu).KeysymsPerKeycode
	for g := 3; g < 8; g++ {
		kcs := modMap.Keycodes[g*stride : (g+1)*stride]
		for _, kc := range kcs {
			if kc == 0 {
				continue
			}
			for c := byte(0); c < perKc; c++ {
				if keybind.KeysymGet(km.xu, kc, c) == xkNumLock {
					km.numLock = 1 << g
					return
				}
			}
		}
	}
}

//----------

// ResolveKeysym resolves a key name ("tab", "F4", "t") to the keysym found
// in the first column of the first keycode producing it. Events are looked
// up the same way, so both sides agree on the key.
func (km *KMap) ResolveKeysym(name string) (binding.Keysym, bool) {
	kcs := keybind.StrToKeycodes(km.xu, name)
	if len(kcs) == 0 {
		return 0, false
	}
	ks := keybind.KeysymGet(km.xu, kcs[0], 0)
	if ks == 0 {
		return 0, false
	}
	return binding.Keysym(ks), true
}

func (km *KMap) Keysym(code uint8) binding.Keysym {
	si := km.xu.Setup()
	kc := xproto.Keycode(code)
	if kc < si.MinKeycode || kc > si.MaxKeycode {
		return 0
	}
	return binding.Keysym(keybind.KeysymGet(km.xu, kc, 0))
}

// Keycodes that have the keysym in the first column.
func (km *KMap) Keycodes(ks binding.Keysym) []xproto.Keycode {
	si := km.xu.Setup()
	u := []xproto.Keycode{}
	for i := int(si.MinKeycode); i <= int(si.MaxKeycode); i++ {
		kc := xproto.Keycode(i)
		if binding.Keysym(keybind.KeysymGet(km.xu, kc, 0)) == ks {
			u = append(u, kc)
		}
	}
	return u
}

func (km *KMap) KeysymName(ks binding.Keysym) string {
	if s := keybind.KeysymToStr(xproto.Keysym(ks)); s != "" {
		return s
	}
	return fmt.Sprintf("%#x", uint32(ks))
}

//----------

func (km *KMap) CleanMods(state uint16) binding.Mod {
	return cleanMods(state, km.numLock)
}

// Variants of the modifiers that must be grabbed so the binding still
// triggers with caps lock or num lock on.
func (km *KMap) LockVariants(mods binding.Mod) []uint16 {
	return lockVariants(mods, km.numLock)
}

//----------

func cleanMods(state, numLock uint16) binding.Mod {
	m := state & uint16(binding.ModMask)
	m &^= numLock
	return binding.Mod(m)
}

func lockVariants(mods binding.Mod, numLock uint16) []uint16 {
	m := uint16(mods)
	locks := []uint16{0, xproto.ModMaskLock, numLock, xproto.ModMaskLock | numLock}
	u := []uint16{}
	seen := map[uint16]bool{}
	for _, l := range locks {
		v := m | l
		if !seen[v] {
			seen[v] = true
			u = append(u, v)
		}
	}
	return u
}
