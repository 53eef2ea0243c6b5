package deps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// manager describes how one package manager adds packages.
type manager struct {
	add     []string // subcommand that adds packages
	devFlag string   // marks packages as development dependencies
}

var managers = map[string]manager{
	"npm":  {add: []string{"install"}, devFlag: "--save-dev"},
	"pnpm": {add: []string{"add"}, devFlag: "--save-dev"},
	"yarn": {add: []string{"add"}, devFlag: "--dev"},
	"bun":  {add: []string{"add"}, devFlag: "--dev"},
}

// Managers returns the supported package manager names, sorted.
func Managers() []string {
	names := make([]string, 0, len(managers))
	for name := range managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateManager returns an error if name is not a supported package manager.
func ValidateManager(name string) error {
	if _, ok := managers[name]; !ok {
		return fmt.Errorf("unsupported package manager %q (supported: %s)", name, strings.Join(Managers(), ", "))
	}
	return nil
}

// Command is one package manager invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line as shown to the user.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes a Command.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// ExitError is returned when the package manager exits non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Run resolves c.Name on PATH and runs it, streaming output to the
// configured writers.
func (ExecRunner) Run(ctx context.Context, c Command) error {
	bin, err := exec.LookPath(c.Name)
	if err != nil {
		return fmt.Errorf("%s is required to install dependencies: %w", c.Name, err)
	}

	cmd := exec.CommandContext(ctx, bin, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: c.String(), Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", c.String(), err)
	}
	return nil
}

// Installer installs a Manifest into Dir.
type Installer struct {
	Manager string   // npm, pnpm, yarn or bun
	Flags   []string // appended to both invocations
	Dir     string

	// Stdout and Stderr default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Runner defaults to ExecRunner.
	Runner Runner
}

// Commands returns the invocations Install would run: runtime
// dependencies first, then development dependencies. Empty groups are
// skipped.
func (i *Installer) Commands(m *Manifest) ([]Command, error) {
	mgr, ok := managers[i.Manager]
	if !ok {
		return nil, ValidateManager(i.Manager)
	}

	stdout := i.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := i.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	build := func(pkgs []Package, dev bool) Command {
		args := append([]string{}, mgr.add...)
		if dev {
			args = append(args, mgr.devFlag)
		}
		for _, p := range pkgs {
			args = append(args, p.Spec())
		}
		args = append(args, i.Flags...)
		return Command{Name: i.Manager, Args: args, Dir: i.Dir, Stdout: stdout, Stderr: stderr}
	}

	var cmds []Command
	if len(m.Dependencies) > 0 {
		cmds = append(cmds, build(m.Dependencies, false))
	}
	if len(m.DevDependencies) > 0 {
		cmds = append(cmds, build(m.DevDependencies, true))
	}
	return cmds, nil
}

// Install runs the package manager for each non-empty group and stops at
// the first failure. The dev group is not attempted if the runtime group
// fails.
func (i *Installer) Install(ctx context.Context, m *Manifest) error {
	cmds, err := i.Commands(m)
	if err != nil {
		return err
	}

	runner := i.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	for _, c := range cmds {
		if err := runner.Run(ctx, c); err != nil {
			return fmt.Errorf("installing dependencies: %w", err)
		}
	}
	return nil
}
