package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"

	"github.com/jmigpin/wm/core/binding"
)

const DefaultDesks = 4

type Config struct {
	Desks    int
	Launcher string // command line of the launcher, split with shell rules
	Lines    []Line // in file order
}

// Line is one "descriptor = action" entry of a bindings section.
type Line struct {
	Class  binding.Class
	Desc   string
	Action string
}

func (l Line) String() string {
	return fmt.Sprintf("[%v] %v = %v", l.Class, l.Desc, l.Action)
}

var sectionClasses = map[string]binding.Class{
	"keyboard": binding.Keyboard,
	"keys":     binding.Keyboard,
	"desktop":  binding.Desktop,
	"drag":     binding.Drag,
}

// Bound before the file lines; the file can override or unbind them.
var DefaultLines = []Line{
	{binding.Keyboard, "alt+tab", "cycle"},
	{binding.Keyboard, "alt+shift+tab", "reverse_cycle"},
	{binding.Keyboard, "alt+f4", "close"},
	{binding.Keyboard, "alt+f2", "launcher"},
	{binding.Keyboard, "win+left", "desk previous"},
	{binding.Keyboard, "win+right", "desk next"},
	{binding.Keyboard, "win+shift+left", "move previous"},
	{binding.Keyboard, "win+shift+right", "move next"},
	{binding.Keyboard, "win+1", "desk 0"},
	{binding.Keyboard, "win+2", "desk 1"},
	{binding.Keyboard, "win+3", "desk 2"},
	{binding.Keyboard, "win+4", "desk 3"},
	{binding.Desktop, "mouse1", "launcher"},
	{binding.Drag, "alt+mouse1", "drag"},
}

//----------

func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "wm", "wm.ini")
}

func Default() *Config {
	return &Config{Desks: DefaultDesks}
}

// Load reads an ini file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		log.Printf("%v not found, using defaults", filename)
		return Default(), nil
	}
	return LoadSource(filename)
}

// LoadSource accepts what ini.LoadSources accepts (filename, []byte, ...).
func LoadSource(src interface{}) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
		AllowBooleanKeys:    true,
	}, src)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}

	cfg := Default()
	for _, sec := range file.Sections() {
		name := strings.ToLower(sec.Name())
		switch name {
		case strings.ToLower(ini.DefaultSection):
			if len(sec.Keys()) > 0 {
				log.Printf("config: ignoring %d entries outside of a section", len(sec.Keys()))
			}
		case "general":
			cfg.Desks = sec.Key("desks").MustInt(DefaultDesks)
			if cfg.Desks < 1 {
				log.Printf("config: bad desks value %v, using %v", cfg.Desks, DefaultDesks)
				cfg.Desks = DefaultDesks
			}
		case "launcher":
			cfg.Launcher = sec.Key("command").String()
		default:
			class, ok := sectionClasses[name]
			if !ok {
				log.Printf("config: unknown section %q", sec.Name())
				continue
			}
			for _, k := range sec.Keys() {
				// a descriptor without "=" gets the value "true", reported
				// later as an invalid action
				cfg.Lines = append(cfg.Lines, Line{class, k.Name(), k.Value()})
			}
		}
	}
	return cfg, nil
}

//----------

// BuildTable binds the default lines and then the config lines. Lines that
// fail are reported and skipped; the errors are returned for inspection.
func BuildTable(cfg *Config, ksr binding.KeysymResolver, g binding.Grabber) (*binding.Table, []error) {
	t := binding.NewTable(ksr, g)
	var errs []error
	bind := func(l Line) {
		if _, err := t.Bind(l.Class, l.Desc, l.Action); err != nil {
			log.Printf("config: %v, skipping", err)
			errs = append(errs, err)
		}
	}
	for _, l := range DefaultLines {
		bind(l)
	}
	for _, l := range cfg.Lines {
		bind(l)
	}
	return t, errs
}
