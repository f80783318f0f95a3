package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to the config file. The file's directory is
// watched so editors that replace the file by renaming are noticed.
type Watcher struct {
	w        *fsnotify.Watcher
	filename string
	events   chan interface{}

	closeOnce sync.Once
	done      chan struct{}
	loopDone  chan struct{}
}

func NewWatcher(filename string) (*Watcher, error) {
	w0, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	filename = filepath.Clean(filename)
	if err := w0.Add(filepath.Dir(filename)); err != nil {
		w0.Close()
		return nil, err
	}
	w := &Watcher{
		w:        w0,
		filename: filename,
		events:   make(chan interface{}),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	go w.eventLoop()
	return w, nil
}

// Close stops the watcher and waits for the event loop to end. Events not
// yet received are dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.w.Close()
		<-w.loopDone
	})
	return err
}

// Receives *Event or error values. Closed when the watcher is closed.
func (w *Watcher) Events() <-chan interface{} {
	return w.events
}

//----------

func (w *Watcher) eventLoop() {
	defer close(w.loopDone)
	defer close(w.events)
	for {
		select {
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			if !w.send(err) {
				return
			}
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.filename {
				continue
			}
			var op Op
			if ev.Op&(fsnotify.Create|fsnotify.Write) > 0 {
				op.Add(Modify)
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) > 0 {
				op.Add(Remove)
			}
			if op == 0 {
				continue // chmod
			}
			if !w.send(&Event{Op: op, Name: ev.Name}) {
				return
			}
		}
	}
}

func (w *Watcher) send(v interface{}) bool {
	select {
	case w.events <- v:
		return true
	case <-w.done:
		return false
	}
}

//----------

type Event struct {
	Op   Op
	Name string
}

type Op uint8

const (
	Modify Op = 1 << iota // created, written
	Remove                // removed, renamed away
)

func (op Op) HasAny(op2 Op) bool { return op&op2 != 0 }
func (op *Op) Add(op2 Op)        { *op |= op2 }
