package commitmsg

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// AdvisoryKind identifies a convention a message does not follow.
type AdvisoryKind string

// Advisory kinds.
const (
	AdvisoryFormat AdvisoryKind = "format"
	AdvisoryLength AdvisoryKind = "length"
)

// Advisory is a non-blocking remark about a generated message.
type Advisory struct {
	Kind   AdvisoryKind `json:"kind"`
	Length int          `json:"length,omitempty"` // set for AdvisoryLength
}

func (a Advisory) String() string {
	switch a.Kind {
	case AdvisoryFormat:
		return "commit message does not start with a conventional type (" + strings.Join(Types, ", ") + ")"
	case AdvisoryLength:
		return fmt.Sprintf("commit message is %d characters; keep it under %d", a.Length, MaxLength)
	default:
		return string(a.Kind)
	}
}

// Check reports the conventions message does not follow. An empty result
// means none; advisories never block using the message.
func Check(message string) []Advisory {
	var advisories []Advisory

	if typ, ok := conventionalType(message); !ok || !slices.Contains(Types, strings.ToLower(typ)) {
		advisories = append(advisories, Advisory{Kind: AdvisoryFormat})
	}
	if n := utf8.RuneCountInString(message); n > MaxLength {
		advisories = append(advisories, Advisory{Kind: AdvisoryLength, Length: n})
	}

	return advisories
}

// conventionalType parses the "type(scope)!:" header prefix and returns the
// type. ok is false unless the type is followed by an optional scope, an
// optional '!' and then a colon. For "feat(api)!: x" that is "feat".
func conventionalType(message string) (typ string, ok bool) {
	message = strings.TrimSpace(message)
	idx := strings.IndexAny(message, ":(! \t\n")
	if idx <= 0 {
		return "", false
	}
	typ, rest := message[:idx], message[idx:]

	if strings.HasPrefix(rest, "(") {
		end := strings.IndexAny(rest, ")\n")
		if end < 0 || rest[end] != ')' {
			return "", false
		}
		rest = rest[end+1:]
	}
	rest = strings.TrimPrefix(rest, "!")
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return typ, true
}
