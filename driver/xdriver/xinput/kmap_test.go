package xinput

import (
	"os"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/jmigpin/wm/core/binding"
)

func TestCleanMods1(t *testing.T) {
	type pair struct {
		state   uint16
		numLock uint16
		m       binding.Mod
	}
	pairs := []pair{
		{0, xproto.ModMask2, 0},
		{xproto.ModMaskLock, xproto.ModMask2, 0},
		{xproto.ModMask2 | xproto.ModMask1, xproto.ModMask2, binding.ModAlt},
		{xproto.ModMask2 | xproto.ModMask1, xproto.ModMask3, binding.ModAlt | binding.ModMod2},
		{xproto.ModMask4 | xproto.ModMaskShift, xproto.ModMask2, binding.ModSuper | binding.ModShift},
		{xproto.KeyButMaskButton1 | xproto.ModMaskControl, xproto.ModMask2, binding.ModControl},
		{xproto.ModMask5, xproto.ModMask2, 0},
	}
	for i, p := range pairs {
		m := cleanMods(p.state, p.numLock)
		if m != p.m {
			t.Fatalf("%v: got %v, expecting %v", i, m, p.m)
		}
	}
}

func TestLockVariants1(t *testing.T) {
	u := lockVariants(binding.ModAlt, xproto.ModMask2)
	w := []uint16{
		xproto.ModMask1,
		xproto.ModMask1 | xproto.ModMaskLock,
		xproto.ModMask1 | xproto.ModMask2,
		xproto.ModMask1 | xproto.ModMaskLock | xproto.ModMask2,
	}
	if len(u) != len(w) {
		t.Fatalf("got %v", u)
	}
	for i := range w {
		if u[i] != w[i] {
			t.Fatalf("%v: got %v, expecting %v", i, u[i], w[i])
		}
	}
}

func TestLockVariantsNoNumLock(t *testing.T) {
	u := lockVariants(binding.ModControl, 0)
	if len(u) != 2 {
		t.Fatalf("got %v", u)
	}
}

//----------

func TestKMapResolve1(t *testing.T) {
	km := getKMap(t)
	for _, name := range []string{"tab", "Tab", "t", "F4", "Left"} {
		ks, ok := km.ResolveKeysym(name)
		if !ok {
			t.Fatalf("%q: not resolved", name)
		}
		if len(km.Keycodes(ks)) == 0 {
			t.Fatalf("%q: no keycodes for %v", name, ks)
		}
	}
	if _, ok := km.ResolveKeysym("nosuchkey"); ok {
		t.Fatal("expecting failure")
	}
}

func getKMap(t *testing.T) *KMap {
	t.Helper()
	if os.Getenv("DISPLAY") == "" {
		t.Skip("no display")
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		t.Skip(err)
	}
	t.Cleanup(func() { xu.Conn().Close() })
	km, err := NewKMap(xu)
	if err != nil {
		t.Fatal(err)
	}
	return km
}
