package manager

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/jmigpin/wm/core/binding"
	"github.com/jmigpin/wm/core/config"
	"github.com/jmigpin/wm/driver/xdriver"
)

// Dump writes the binding table the config resolves to. Needs a display
// connection for the key names but does not take over the screen.
func Dump(opt *Options, w io.Writer) error {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		return err
	}
	if opt.Desks > 0 {
		cfg.Desks = opt.Desks
	}
	dpy, err := xdriver.NewDisplay()
	if err != nil {
		return err
	}
	defer dpy.Disconnect()

	t, _ := config.BuildTable(cfg, dpy, nil)
	DumpTable(w, cfg, t, dpy.KMap.KeysymName)
	return nil
}

func DumpTable(w io.Writer, cfg *config.Config, t *binding.Table, ksName func(binding.Keysym) string) {
	fmt.Fprintf(w, "desks: %d\nlauncher: %q\n", cfg.Desks, cfg.Launcher)
	for _, b := range t.Bindings() {
		if b.Unbound() {
			continue
		}
		key := fmt.Sprintf("mouse%d", b.Button)
		if b.Class == binding.Keyboard {
			key = ksName(b.Keysym)
		}
		if b.Mods != 0 {
			key = b.Mods.String() + "+" + key
		}
		fmt.Fprintf(w, "%v\t%v\t%v\n", b.Class, key, b.Action)
	}
	sc := spew.ConfigState{Indent: "\t", DisablePointerAddresses: true, SortKeys: true}
	sc.Fdump(w, t.Bindings())
}
