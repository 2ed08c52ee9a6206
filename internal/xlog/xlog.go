/*
Package xlog wires the process's single log15 root logger: level parsing
from a name or verbosity int, and a package-scoped child logger for
every other package to call New from.

Every subsystem gets its own child via New("name") rather than sharing
the root directly, so "module" always shows up as a log15 context key.
*/
package xlog

import (
	"fmt"
	"os"
	"strings"

	"github.com/inconshreveable/log15"
)

// Level aliases log15's so callers never need the import themselves.
type Level = log15.Lvl

const (
	LvlCrit  = log15.LvlCrit
	LvlError = log15.LvlError
	LvlWarn  = log15.LvlWarn
	LvlInfo  = log15.LvlInfo
	LvlDebug = log15.LvlDebug
)

// ParseLevel accepts both log15's names (crit, error, warn, info, debug)
// and a bare 0-4 verbosity int, matching the two conventions seen across
// the corpus's --verbosity flags. Unknown input falls back to LvlInfo.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if lvl, err := log15.LvlFromString(s); err == nil {
		return lvl
	}
	switch s {
	case "0":
		return LvlCrit
	case "1":
		return LvlError
	case "2":
		return LvlWarn
	case "3":
		return LvlInfo
	case "4":
		return LvlDebug
	default:
		return LvlInfo
	}
}

// Init installs a stderr handler filtered at lvl as the log15 root
// handler. Call it once, from main, before any package logs.
func Init(lvl Level) {
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, log15.StderrHandler))
}

// New returns a child logger tagged with "module"=name.
func New(name string) log15.Logger {
	return log15.New("module", name)
}

// Fatal logs msg at Crit with ctx and exits the process with status 1.
// Reserved for main's own startup failures; library code should return
// errors instead.
func Fatal(log log15.Logger, msg string, ctx ...interface{}) {
	log.Crit(msg, ctx...)
	os.Exit(1)
}

// Fatalf is Fatal with a formatted message and no structured context,
// for the rare startup error that has no natural key/value pairs.
func Fatalf(log log15.Logger, format string, a ...interface{}) {
	Fatal(log, fmt.Sprintf(format, a...))
}
