package binding

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jmigpin/wm/core/action"
	"github.com/jmigpin/wm/core/wmerr"
)

func TestParseMods1(t *testing.T) {
	type pair struct {
		names []string
		m     Mod
	}
	pairs := []pair{
		{[]string{"shift"}, ModShift},
		{[]string{"control", "ctrl", "ctl"}, ModControl},
		{[]string{"alt", "meta", "mod1"}, ModAlt},
		{[]string{"mod2"}, ModMod2},
		{[]string{"mod3"}, ModMod3},
		{[]string{"super", "win", "mod4"}, ModSuper},
	}
	for _, p := range pairs {
		for _, name := range p.names {
			for _, s := range []string{name, strings.ToUpper(name), strings.Title(name)} {
				m, ok := ParseMod(s)
				if !ok || m != p.m {
					t.Fatalf("%q: got %v,%v, expected %v", s, m, ok, p.m)
				}
			}
		}
	}
}

func TestParse1(t *testing.T) {
	ksr := testResolver()
	type pair struct {
		class Class
		desc  string
		ks    Keysym
		mods  Mod
		btn   int
	}
	pairs := []pair{
		{Keyboard, "shift+alt+f1", ksF1, ModShift | ModAlt, 0},
		{Keyboard, "Super+Space", ksSpace, ModSuper, 0},
		{Keyboard, "ampersand", ksAmpersand, 0, 0},
		{Keyboard, "Win+T", ksT, ModSuper, 0},
		{Keyboard, "Win+t", ksT, ModSuper, 0},
		{Keyboard, "CTRL+Meta+Tab", ksTab, ModControl | ModAlt, 0},
		{Desktop, "mouse1", 0, 0, 1},
		{Desktop, "MOUSE3", 0, 0, 3},
		{Drag, "alt+mouse1", 0, ModAlt, 1},
	}
	for i, p := range pairs {
		b, err := Parse(p.class, p.desc, "close", ksr)
		if err != nil {
			t.Fatalf("entry %v: %v", i, err)
		}
		if b.Class != p.class || b.Keysym != p.ks || b.Mods != p.mods || b.Button != p.btn {
			t.Fatalf("entry %v: %q: %+v", i, p.desc, b)
		}
		if b.Action.Kind != action.Close {
			t.Fatalf("entry %v: action %v", i, b.Action)
		}
	}
}

func TestParseErrors(t *testing.T) {
	ksr := testResolver()
	type pair struct {
		class Class
		desc  string
		act   string
		err   error
	}
	pairs := []pair{
		{Keyboard, "hyper+t", "close", wmerr.ErrUnknownModifier},
		{Keyboard, "alt+hyper+t", "close", wmerr.ErrUnknownModifier},
		{Keyboard, "alt+nosuchkey", "close", wmerr.ErrUnknownKey},
		{Keyboard, "alt+", "close", wmerr.ErrUnknownKey},
		{Keyboard, "mouse1", "close", wmerr.ErrUnknownKey},
		{Desktop, "t", "close", wmerr.ErrUnknownKey},
		{Desktop, "mouse0", "close", wmerr.ErrUnknownKey},
		{Desktop, "mouse12", "close", wmerr.ErrUnknownKey},
		{Keyboard, "alt+t", "zoom", wmerr.ErrInvalidAction},
		{Keyboard, "alt+t", "desk", wmerr.ErrMissingArgument},
	}
	for i, p := range pairs {
		_, err := Parse(p.class, p.desc, p.act, ksr)
		if !errors.Is(err, p.err) {
			t.Fatalf("entry %v: %q: got %v, expected %v", i, p.desc, err, p.err)
		}
	}
}

//----------

func TestTableOverwrite(t *testing.T) {
	g := &testGrabber{}
	tab := NewTable(testResolver(), g)

	b1, err := tab.Bind(Keyboard, "alt+t", "exec xterm")
	if err != nil {
		t.Fatal(err)
	}
	b2, err := tab.Bind(Keyboard, "Alt+T", "exec firefox --private")
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Fatal("expected same slot")
	}
	if tab.Len() != 1 {
		t.Fatalf("len=%v", tab.Len())
	}
	b := tab.Lookup(ksT, ModAlt)
	if b == nil || b.Action.Kind != action.Exec || b.Action.Str != "firefox --private" {
		t.Fatalf("%+v", b)
	}
	// only the first bind grabs
	if g.String() != "grab:74:8" {
		t.Fatalf("grabs: %v", g)
	}
}

func TestTableOverwriteKeepsOrder(t *testing.T) {
	tab := NewTable(testResolver(), nil)
	for _, d := range []string{"alt+t", "alt+tab", "alt+f1"} {
		if _, err := tab.Bind(Keyboard, d, "close"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tab.Bind(Keyboard, "alt+tab", "cycle"); err != nil {
		t.Fatal(err)
	}
	bs := tab.Bindings()
	if len(bs) != 3 || bs[1].Keysym != ksTab || bs[1].Action.Kind != action.Cycle {
		t.Fatalf("%v", bs)
	}
}

func TestTableUnbind(t *testing.T) {
	g := &testGrabber{}
	tab := NewTable(testResolver(), g)

	if _, err := tab.Bind(Keyboard, "win+t", "exec xterm"); err != nil {
		t.Fatal(err)
	}
	b, err := tab.Bind(Keyboard, "win+t", "")
	if err != nil {
		t.Fatal(err)
	}
	if b == nil || !b.Unbound() || b.Action.Kind != action.None || b.Action.Str != "" {
		t.Fatalf("%+v", b)
	}
	if tab.Lookup(ksT, ModSuper) != nil {
		t.Fatal("unbound binding still found")
	}
	if tab.Len() != 1 {
		t.Fatalf("len=%v", tab.Len())
	}
	if g.String() != "grab:74:40,ungrab:74:40" {
		t.Fatalf("grabs: %v", g)
	}

	// binding again appends a new slot and grabs again
	if _, err := tab.Bind(Keyboard, "win+t", "close"); err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 2 || tab.Lookup(ksT, ModSuper) == nil {
		t.Fatal("rebind")
	}
	if len(g.calls) != 3 {
		t.Fatalf("grabs: %v", g)
	}
}

func TestTableUnbindNonexistent(t *testing.T) {
	g := &testGrabber{}
	tab := NewTable(testResolver(), g)
	b, err := tab.Bind(Keyboard, "win+t", "")
	if err != nil {
		t.Fatal(err)
	}
	if b != nil || tab.Len() != 0 || len(g.calls) != 0 {
		t.Fatalf("expected no-op: %v %v %v", b, tab.Len(), g)
	}
}

func TestTableButtonsDoNotGrab(t *testing.T) {
	g := &testGrabber{}
	tab := NewTable(testResolver(), g)
	if _, err := tab.Bind(Desktop, "mouse1", "launcher"); err != nil {
		t.Fatal(err)
	}
	if _, err := tab.Bind(Drag, "alt+mouse1", "drag"); err != nil {
		t.Fatal(err)
	}
	if _, err := tab.Bind(Desktop, "mouse1", ""); err != nil {
		t.Fatal(err)
	}
	if len(g.calls) != 0 {
		t.Fatalf("grabs: %v", g)
	}
	if tab.LookupButton(Drag, 1, ModAlt) == nil {
		t.Fatal("drag binding")
	}
	if tab.LookupButton(Desktop, 1, 0) != nil {
		t.Fatal("desktop binding should be unbound")
	}
}

func TestTableFailedBindHasNoSideEffects(t *testing.T) {
	g := &testGrabber{}
	tab := NewTable(testResolver(), g)
	if _, err := tab.Bind(Keyboard, "alt+t", "exec xterm"); err != nil {
		t.Fatal(err)
	}
	if _, err := tab.Bind(Keyboard, "alt+t", "desk"); err == nil {
		t.Fatal("expected error")
	}
	b := tab.Lookup(ksT, ModAlt)
	if b == nil || b.Action.Str != "xterm" || len(g.calls) != 1 {
		t.Fatalf("%+v %v", b, g)
	}
}

func TestTableAttachDetach(t *testing.T) {
	tab := NewTable(testResolver(), nil)
	for _, d := range []string{"alt+t", "alt+tab"} {
		if _, err := tab.Bind(Keyboard, d, "close"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tab.Bind(Keyboard, "alt+t", ""); err != nil {
		t.Fatal(err)
	}
	g := &testGrabber{}
	tab.Attach(g)
	tab.Detach()
	if g.String() != "grab:ff09:8,ungrab:ff09:8" {
		t.Fatalf("grabs: %v", g)
	}
}

//----------
//----------
//----------

const (
	ksT         Keysym = 0x74
	ksSpace     Keysym = 0x20
	ksAmpersand Keysym = 0x26
	ksTab       Keysym = 0xff09
	ksF1        Keysym = 0xffbe
)

type testKeysyms map[string]Keysym

func (m testKeysyms) ResolveKeysym(name string) (Keysym, bool) {
	ks, ok := m[name]
	return ks, ok
}

func testResolver() KeysymResolver {
	return testKeysyms{
		"t":         ksT,
		"space":     ksSpace,
		"Space":     ksSpace,
		"ampersand": ksAmpersand,
		"Tab":       ksTab,
		"tab":       ksTab,
		"f1":        ksF1,
		"F1":        ksF1,
	}
}

type testGrabber struct {
	calls []string
}

func (g *testGrabber) GrabKey(ks Keysym, mods Mod) error {
	g.calls = append(g.calls, fmt.Sprintf("grab:%x:%x", uint32(ks), uint16(mods)))
	return nil
}
func (g *testGrabber) UngrabKey(ks Keysym, mods Mod) error {
	g.calls = append(g.calls, fmt.Sprintf("ungrab:%x:%x", uint32(ks), uint16(mods)))
	return nil
}
func (g *testGrabber) String() string {
	return strings.Join(g.calls, ",")
}
