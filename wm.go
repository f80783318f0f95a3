// Keyboard driven X11 window manager.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jmigpin/wm/core/config"
	"github.com/jmigpin/wm/core/manager"
)

func main() {
	log.SetFlags(log.Lshortfile)
	log.SetPrefix("wm: ")

	opt := &manager.Options{}
	flag.StringVar(&opt.ConfigPath, "config", config.DefaultPath(), "config file")
	flag.IntVar(&opt.Desks, "desks", 0, "number of desks, overrides the config file")
	dump := flag.Bool("dump", false, "print the binding table and exit")
	flag.BoolVar(&opt.Watch, "watch", false, "reload the config file when it changes")
	flag.Parse()

	if *dump {
		if err := manager.Dump(opt, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	m, err := manager.NewManager(opt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := m.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
