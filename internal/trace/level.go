package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // recovered failures only
	LevelPhase               // check run and its load/index/analyze passes
	LevelDetail              // plus one span per analyzed file
	LevelDebug               // plus one point per inspected node
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// widest scope kept at each level; zero keeps no spans or points
var levelScopes = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether spans and points of scope pass at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScopes) {
		return false
	}
	return scope != 0 && scope <= levelScopes[l]
}
