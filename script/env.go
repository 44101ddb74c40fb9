package script

import (
	"sort"
	"strings"

	goerrors "github.com/kbukum/gosh/errors"
)

// Env is a read-only snapshot of the environment taken when the script
// started.
type Env struct {
	vars map[string]string
}

// NewEnv builds a snapshot from KEY=value pairs such as os.Environ().
func NewEnv(environ []string) *Env {
	e := &Env{vars: make(map[string]string, len(environ))}
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		if k != "" {
			e.vars[k] = v
		}
	}
	return e
}

// Get returns the value of name, or "" when unset.
func (e *Env) Get(name string) string {
	return e.vars[name]
}

// Lookup returns the value of name and whether it is set.
func (e *Env) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Names returns the variable names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Assert returns the values of names in order, or a usage error listing
// every variable that is unset.
func (e *Env) Assert(names ...string) ([]string, error) {
	return e.assert(false, names)
}

// AssertNonEmpty is Assert that also rejects variables set to "".
func (e *Env) AssertNonEmpty(names ...string) ([]string, error) {
	return e.assert(true, names)
}

func (e *Env) assert(nonEmpty bool, names []string) ([]string, error) {
	values := make([]string, 0, len(names))
	var missing []string
	for _, name := range names {
		v, ok := e.vars[name]
		if !ok || (nonEmpty && v == "") {
			missing = append(missing, name)
			continue
		}
		values = append(values, v)
	}
	if len(missing) > 0 {
		label := "Environment variable"
		if len(missing) > 1 {
			label += "s"
		}
		return nil, goerrors.Usage(label+" must be set: "+strings.Join(missing, ", "), 1)
	}
	return values, nil
}
