package invocation

import (
	"os"
	"strings"
)

// Context is the read-only invocation snapshot handed to consumer task
// modules. It is built once per command run and never mutated by the
// orchestrator afterwards.
type Context struct {
	args             ParsedArgs
	environment      map[string]string
	workingDirectory string
}

// NewContext builds a Context from raw tokens, snapshotting the process
// environment and working directory at invocation start.
func NewContext(tokens []string) (*Context, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return &Context{
		args:             ParseArgs(tokens),
		environment:      snapshotEnviron(os.Environ()),
		workingDirectory: wd,
	}, nil
}

// NewContextWith builds a Context from pre-parsed pieces. Used by tests
// and by callers that already hold an environment snapshot.
func NewContextWith(args ParsedArgs, env map[string]string, workingDirectory string) *Context {
	if args.Named == nil {
		args.Named = make(map[string]string)
	}
	if args.Flags == nil {
		args.Flags = make(map[string]bool)
	}
	return &Context{
		args:             args,
		environment:      env,
		workingDirectory: workingDirectory,
	}
}

// Positional returns the positional tokens in encounter order
func (c *Context) Positional() []string {
	out := make([]string, len(c.args.Positional))
	copy(out, c.args.Positional)
	return out
}

// Environment returns the immutable environment snapshot. Callers get
// a copy; the snapshot itself is never mutated mid-run.
func (c *Context) Environment() map[string]string {
	out := make(map[string]string, len(c.environment))
	for k, v := range c.environment {
		out[k] = v
	}
	return out
}

// Env returns a single environment value from the snapshot
func (c *Context) Env(key string) string {
	return c.environment[key]
}

// WorkingDirectory returns the absolute path captured at invocation start
func (c *Context) WorkingDirectory() string {
	return c.workingDirectory
}

// Extract returns the named value for key, or nil when absent.
// It never panics.
func (c *Context) Extract(key string) *string {
	if v, ok := c.args.Named[key]; ok {
		return &v
	}
	return nil
}

// Has reports whether key arrived as a standalone flag or as a named
// argument. Both satisfy a presence check.
func (c *Context) Has(key string) bool {
	if c.args.Flags[key] {
		return true
	}
	_, ok := c.args.Named[key]
	return ok
}

// Str lifts a string literal into the string-or-absent shape accepted
// by Cmd.
func Str(s string) *string {
	return &s
}

// Cmd assembles a subprocess argument vector from string-or-absent
// values, dropping absent entries and preserving call order.
func Cmd(args ...*string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

func snapshotEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}
