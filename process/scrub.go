package process

import (
	"regexp"
	"strings"
	"sync"
)

var shellPrefixes sync.Map // shell -> *regexp.Regexp

// shellPrefix matches the "<shell>: " diagnostic prefix, with the optional
// line marker dash ("1: ") and bash ("line 1: ") put after it.
func shellPrefix(shell string) *regexp.Regexp {
	if re, ok := shellPrefixes.Load(shell); ok {
		return re.(*regexp.Regexp)
	}
	alts := regexp.QuoteMeta(DefaultShell)
	if shell != "" && shell != DefaultShell {
		alts = regexp.QuoteMeta(shell) + "|" + alts
	}
	re := regexp.MustCompile(`^(?:` + alts + `): (?:line \d+: |\d+: )?`)
	shellPrefixes.Store(shell, re)
	return re
}

// scrub strips the shell prefix and exactly one leading and one trailing
// newline. Other whitespace is preserved.
func scrub(out []byte, shell string) string {
	s := shellPrefix(shell).ReplaceAllLiteralString(string(out), "")
	s = strings.TrimPrefix(s, "\n")
	return strings.TrimSuffix(s, "\n")
}
