package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmigpin/wm/core/wmerr"
)

type Kind int

const (
	Invalid Kind = iota - 2
	None
	_
	Cycle
	ReverseCycle
	Desk
	DeskNext     // Desk+1
	DeskPrevious // Desk+2
	Close
	Exec
	Launcher
	Restart
	Quit
	Drag
	Iconify
	Fullscreen
	Move
	MoveNext     // Move+1
	MovePrevious // Move+2
)

// AllDesks is the Int argument of "desk all" and "move all".
const AllDesks = -1

var kindNames = map[Kind]string{
	Invalid:      "invalid",
	None:         "none",
	Cycle:        "cycle",
	ReverseCycle: "reverse_cycle",
	Desk:         "desk",
	DeskNext:     "desk next",
	DeskPrevious: "desk previous",
	Close:        "close",
	Exec:         "exec",
	Launcher:     "launcher",
	Restart:      "restart",
	Quit:         "quit",
	Drag:         "drag",
	Iconify:      "iconify",
	Fullscreen:   "fullscreen",
	Move:         "move",
	MoveNext:     "move next",
	MovePrevious: "move previous",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// command words, matched exactly
var commands = map[string]Kind{
	"cycle":         Cycle,
	"reverse_cycle": ReverseCycle,
	"desk":          Desk,
	"close":         Close,
	"exec":          Exec,
	"launcher":      Launcher,
	"restart":       Restart,
	"quit":          Quit,
	"drag":          Drag,
	"fullscreen":    Fullscreen,
	"iconify":       Iconify,
	"move":          Move,
}

//----------

type Action struct {
	Kind Kind
	Int  int    // desk index or AllDesks (Desk, Move)
	Str  string // shell command (Exec)
}

func (a Action) String() string {
	switch a.Kind {
	case Desk, Move:
		if a.Int == AllDesks {
			return a.Kind.String() + " all"
		}
		return fmt.Sprintf("%v %d", a.Kind, a.Int)
	case Exec:
		return "exec " + a.Str
	case None:
		return ""
	}
	return a.Kind.String()
}

//----------

// Parse converts action text like "cycle", "desk next" or "exec xterm -g
// 80x50" into an Action. The label prefixes error messages (usually the
// binding descriptor the action belongs to). Empty text yields None, which
// is used to unbind.
func Parse(label, text string) (Action, error) {
	word, arg, hasArg := strings.Cut(text, " ")

	kind := Invalid
	if k, ok := commands[word]; ok {
		kind = k
	} else if word == "" || word[0] == '\n' {
		kind = None
	}

	a := Action{Kind: kind}
	switch kind {
	case Desk, Move:
		if !hasArg {
			return Action{}, wmerr.Wrapf(wmerr.ErrMissingArgument, label, "%q", word)
		}
		switch arg {
		case "next":
			a.Kind += 1
		case "previous":
			a.Kind += 2
		case "all":
			a.Int = AllDesks
		default:
			v, err := strconv.ParseInt(arg, 10, 0)
			if err != nil {
				return Action{}, wmerr.Wrapf(wmerr.ErrBadArgument, label, "%q for %q", arg, word)
			}
			a.Int = int(v)
		}
	case Exec:
		if !hasArg {
			return Action{}, wmerr.Wrapf(wmerr.ErrMissingArgument, label, "%q", word)
		}
		a.Str = arg
	case Invalid:
		return Action{}, wmerr.Wrapf(wmerr.ErrInvalidAction, label, "%q", word)
	default:
		if hasArg {
			return Action{}, wmerr.Wrapf(wmerr.ErrUnexpectedArgument, label, "%q for %q", arg, word)
		}
	}
	return a, nil
}
