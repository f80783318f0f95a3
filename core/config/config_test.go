package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmigpin/wm/core/action"
	"github.com/jmigpin/wm/core/binding"
	"github.com/jmigpin/wm/core/wmerr"
	"github.com/jmigpin/wm/util/testutil"
)

const testConfig = `
[general]
desks = 6

[launcher]
command = dmenu_run -l 10

[keyboard]
Win+T = exec xterm -e sh -c 'top; read x' ; true
alt+f4 =
hyper+x = close
alt+x = desk nowhere
win+d = desk all
win+t = exec firefox --private
win+q

[desktop]
mouse3 = launcher

[drag]
alt+mouse1 = drag
win+mouse1 = drag

[nosuchsection]
a = b
`

func TestLoad1(t *testing.T) {
	cfg, err := LoadSource([]byte(testConfig))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Desks)
	assert.Equal(t, "dmenu_run -l 10", cfg.Launcher)

	descs := []string{}
	for _, l := range cfg.Lines {
		descs = append(descs, l.Desc)
	}
	assert.Equal(t, []string{
		"Win+T", "alt+f4", "hyper+x", "alt+x", "win+d", "win+t", "win+q",
		"mouse3", "alt+mouse1", "win+mouse1",
	}, descs)
	assert.Equal(t, Line{binding.Keyboard, "Win+T", "exec xterm -e sh -c 'top; read x' ; true"}, cfg.Lines[0])
	assert.Equal(t, binding.Desktop, cfg.Lines[7].Class)
	assert.Equal(t, binding.Drag, cfg.Lines[9].Class)
}

func TestBuildTable1(t *testing.T) {
	cfg, err := LoadSource([]byte(testConfig))
	require.NoError(t, err)

	var tab *binding.Table
	var errs []error
	lines := testutil.CollectLog(t, func() {
		tab, errs = BuildTable(cfg, testKeysyms{}, nil)
	})
	require.Len(t, errs, 3)
	assert.Len(t, testutil.FilterLines(lines, "skipping"), 3)
	assert.True(t, errors.Is(errs[0], wmerr.ErrUnknownModifier))
	assert.True(t, errors.Is(errs[1], wmerr.ErrBadArgument))
	assert.True(t, errors.Is(errs[2], wmerr.ErrInvalidAction))

	// config overrides the default
	b := tab.Lookup(0x74, binding.ModSuper)
	require.NotNil(t, b)
	assert.Equal(t, action.Action{Kind: action.Exec, Str: "firefox --private"}, b.Action)

	// config unbinds a default
	assert.Nil(t, tab.Lookup(0xffc1, binding.ModAlt))

	b = tab.Lookup(0x64, binding.ModSuper)
	require.NotNil(t, b)
	assert.Equal(t, action.AllDesks, b.Action.Int)

	assert.NotNil(t, tab.LookupButton(binding.Desktop, 3, 0))
	assert.NotNil(t, tab.LookupButton(binding.Desktop, 1, 0)) // default
	assert.NotNil(t, tab.LookupButton(binding.Drag, 1, binding.ModSuper))
}

func TestBuildTableDefaults(t *testing.T) {
	tab, errs := BuildTable(Default(), testKeysyms{}, nil)
	assert.Empty(t, errs)
	assert.Equal(t, len(DefaultLines), tab.Len())
	b := tab.Lookup(0xff09, binding.ModAlt)
	require.NotNil(t, b)
	assert.Equal(t, action.Cycle, b.Action.Kind)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDesks, cfg.Desks)
	assert.Empty(t, cfg.Lines)
}

func TestLoadBadDesks(t *testing.T) {
	cfg, err := LoadSource([]byte("[general]\ndesks = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDesks, cfg.Desks)
}

//----------

func TestWatcher1(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "wm.ini")
	require.NoError(t, os.WriteFile(fp, []byte("[keyboard]\n"), 0644))

	w, err := NewWatcher(fp)
	require.NoError(t, err)
	defer w.Close()

	// other files in the dir are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), nil, 0644))
	require.NoError(t, os.WriteFile(fp, []byte("[keyboard]\nalt+t = close\n"), 0644))

	select {
	case ev := <-w.Events():
		e, ok := ev.(*Event)
		require.True(t, ok, "%v", ev)
		assert.True(t, e.Op.HasAny(Modify))
		assert.Equal(t, fp, e.Name)
	case <-time.After(3 * time.Second):
		t.Fatal("event timeout")
	}
}

func TestWatcherCloseUndrained(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "wm.ini")
	require.NoError(t, os.WriteFile(fp, []byte("[keyboard]\n"), 0644))

	w, err := NewWatcher(fp)
	require.NoError(t, err)

	// nobody reads the events
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(fp, []byte("[keyboard]\nalt+t = close\n"), 0644))
	}
	time.Sleep(200 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- w.Close() }()
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("close timeout")
	}
	_, ok := <-w.Events()
	assert.False(t, ok)
	assert.NoError(t, w.Close())
}

//----------

type testKeysyms struct{}

var keysyms = map[string]binding.Keysym{
	"t": 0x74, "d": 0x64, "q": 0x71, "x": 0x78,
	"tab": 0xff09, "left": 0xff51, "right": 0xff53,
	"f2": 0xffbf, "f4": 0xffc1,
	"1": 0x31, "2": 0x32, "3": 0x33, "4": 0x34,
}

func (testKeysyms) ResolveKeysym(name string) (binding.Keysym, bool) {
	ks, ok := keysyms[name]
	return ks, ok
}
