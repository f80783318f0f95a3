package osutil

import (
	"log"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Procs starts detached commands and re-executes the running program.
type Procs struct {
	Argv []string // original invocation, os.Args if nil
	Env  []string // os.Environ() if nil
}

// Spawn runs cmd with "sh -c" in a new session. The child is not waited on
// by the caller; a goroutine reaps it.
func (p *Procs) Spawn(cmd string) error {
	args := ShellScriptArgs(cmd)
	return p.start(exec.Command(args[0], args[1:]...))
}

// SpawnArgs runs a command line split with shell quoting rules, without a
// shell.
func (p *Procs) SpawnArgs(cmdLine string) error {
	args, err := shlex.Split(cmdLine)
	if err != nil {
		return errors.Wrapf(err, "split %q", cmdLine)
	}
	if len(args) == 0 {
		return errors.New("empty command")
	}
	return p.start(exec.Command(args[0], args[1:]...))
}

func (p *Procs) start(c *exec.Cmd) error {
	SetupExecCmdSysProcAttr(c)
	c.Env = p.env()
	if err := c.Start(); err != nil {
		return err
	}
	go func() {
		if err := c.Wait(); err != nil {
			log.Printf("%v: %v", c.Args, err)
		}
	}()
	return nil
}

// ReExec replaces the process image with a new run of the original
// invocation. Only returns on error.
func (p *Procs) ReExec() error {
	argv := p.Argv
	if argv == nil {
		argv = os.Args
	}
	if len(argv) == 0 {
		return errors.New("no argv")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}
	return unix.Exec(path, argv, p.env())
}

func (p *Procs) env() []string {
	if p.Env != nil {
		return p.Env
	}
	return os.Environ()
}
