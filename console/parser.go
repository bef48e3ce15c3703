package console

import (
	"strings"

	"stepctl/core"
)

// Command is the result of parsing one line. Arg is only set for commands
// that take an argument and holds everything after the keyword, leading
// space included.
type Command struct {
	Kind Kind
	Arg  string
}

// Parse matches line against the keyword table. A keyword matches when it
// is a prefix of the line; the first match in table order wins. Lines that
// match nothing parse to None.
func Parse(line string) Command {
	for _, kw := range keywords {
		if !strings.HasPrefix(line, kw.Text) {
			continue
		}
		cmd := Command{Kind: kw.Kind}
		if kw.TakeArg {
			cmd.Arg = line[len(kw.Text):]
		}
		return cmd
	}
	return Command{Kind: None}
}

// ParseUnsigned reads a base-10 number, skipping every non-digit character
// wherever it appears. It never fails: text without digits yields 0 and
// values past 32 bits wrap.
func ParseUnsigned(s string) uint32 {
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			n = n*10 + uint32(c-'0')
		}
	}
	return n
}

// ParseDirection recognizes " cc" and " cw" at the start of a dir argument
func ParseDirection(arg string) (core.Direction, bool) {
	switch {
	case strings.HasPrefix(arg, " cc"):
		return core.CounterClockwise, true
	case strings.HasPrefix(arg, " cw"):
		return core.Clockwise, true
	}
	return core.Clockwise, false
}

// ParseStepSize recognizes " full" and " half" at the start of a size argument
func ParseStepSize(arg string) (core.StepSize, bool) {
	switch {
	case strings.HasPrefix(arg, " full"):
		return core.FullStep, true
	case strings.HasPrefix(arg, " half"):
		return core.HalfStep, true
	}
	return core.FullStep, false
}
