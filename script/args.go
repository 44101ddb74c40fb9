package script

import (
	"fmt"
	"regexp"
	"strings"

	goerrors "github.com/kbukum/gosh/errors"
)

var flagPattern = regexp.MustCompile(`^--(\w+)(?:=(.*))?$`)

// Args is the script's argument vector. Every argument keeps its position,
// including `--name` flags, which are additionally indexed by name.
type Args struct {
	// Program is the script name ($0).
	Program string
	values  []string
	flags   map[string]string
}

// ParseArgs indexes argv, which excludes the program name.
// `--name=value` records value and a bare `--name` records "true".
func ParseArgs(program string, argv []string) *Args {
	a := &Args{
		Program: program,
		values:  append([]string(nil), argv...),
		flags:   make(map[string]string),
	}
	for _, arg := range argv {
		m := flagPattern.FindStringSubmatch(arg)
		if m == nil {
			continue
		}
		if m[2] != "" {
			a.flags[m[1]] = m[2]
		} else {
			a.flags[m[1]] = "true"
		}
	}
	return a
}

// Len returns the number of arguments.
func (a *Args) Len() int { return len(a.values) }

// All returns a copy of the arguments.
func (a *Args) All() []string { return append([]string(nil), a.values...) }

// At returns the n-th argument counting from 1 like $1, or "" when absent.
func (a *Args) At(n int) string {
	if n < 1 || n > len(a.values) {
		return ""
	}
	return a.values[n-1]
}

// Flag returns the value of --name.
func (a *Args) Flag(name string) (string, bool) {
	v, ok := a.flags[name]
	return v, ok
}

// Bool reports whether --name was given without a value or as
// --name=true.
func (a *Args) Bool(name string) bool {
	return a.flags[name] == "true"
}

// HelpRequested reports whether --help or -h appears anywhere.
func (a *Args) HelpRequested() bool {
	for _, v := range a.values {
		if v == "--help" || v == "-h" {
			return true
		}
	}
	return false
}

// AssertCount returns the first n arguments, or a usage error when fewer
// were given.
func (a *Args) AssertCount(n int) ([]string, error) {
	if len(a.values) < n {
		return nil, goerrors.Usage(countMessage(n, len(a.values)), 1)
	}
	return append([]string(nil), a.values[:n]...), nil
}

func countMessage(expected, got int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d argument%s %s expected but ", expected, plural(expected), wasWere(expected))
	if got == 0 {
		b.WriteString("none")
	} else {
		fmt.Fprintf(&b, "%d", got)
	}
	fmt.Fprintf(&b, " %s provided", wasWere(got))
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}
