package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RoundType tags a round within a class.
type RoundType string

// Known round types.
const (
	RoundOne      RoundType = "r1"
	RoundTwo      RoundType = "r2"
	RoundJumpOff1 RoundType = "jo1"
	RoundJumpOff2 RoundType = "jo2"
)

// FaultKind is a single fault code recorded at a jump.
type FaultKind string

// Fault codes.
const (
	FaultRail         FaultKind = "r"
	FaultDisobedience FaultKind = "d"
	FaultKnockdown    FaultKind = "k"
	FaultFall         FaultKind = "f"
	FaultElimination  FaultKind = "e"
)

func (k FaultKind) valid() bool {
	switch k {
	case FaultRail, FaultDisobedience, FaultKnockdown, FaultFall, FaultElimination:
		return true
	}
	return false
}

// Fault records the faults incurred at one numbered jump.
type Fault struct {
	Jump  int         `yaml:"jump"`
	Kinds []FaultKind `yaml:"kinds"`
}

// String renders the judge's shorthand, e.g. "5rd".
func (f Fault) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(f.Jump))
	for _, k := range f.Kinds {
		b.WriteString(string(k))
	}
	return b.String()
}

// ParseFault parses the judge's shorthand: a jump number followed by one or more fault codes.
func ParseFault(s string) (Fault, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return Fault{}, fmt.Errorf("%w: fault %q", ErrInvalidFormat, s)
	}
	jump, err := strconv.Atoi(s[:i])
	if err != nil || jump < 1 {
		return Fault{}, fmt.Errorf("%w: fault jump number %q", ErrInvalidFormat, s[:i])
	}
	f := Fault{Jump: jump}
	for _, c := range strings.ToLower(s[i:]) {
		k := FaultKind(string(c))
		if !k.valid() {
			return Fault{}, fmt.Errorf("%w: fault code %q in %q", ErrInvalidFormat, c, s)
		}
		f.Kinds = append(f.Kinds, k)
	}
	return f, nil
}

// Centiseconds is an elapsed time in hundredths of a second.
type Centiseconds int

// Seconds returns the time in seconds.
func (c Centiseconds) Seconds() float64 { return float64(c) / 100 }

func (c Centiseconds) String() string {
	return fmt.Sprintf("%d.%02d", int(c)/100, int(c)%100)
}

// JumpClassRef identifies a jump class within its event.
type JumpClassRef struct {
	ArenaID string `yaml:"arena_id"`
	ClassID int    `yaml:"class_id"`
}

// Round is one combo's attempt at one round of a class. Faults and penalties are
// recorded as judged; converting them to placings is not done here.
type Round struct {
	JumpClass     JumpClassRef `yaml:"jumpclass"`
	Type          RoundType    `yaml:"round_type"`
	ComboID       string       `yaml:"combo"`
	Faults        []Fault      `yaml:"faults"`
	JumpPenalties float64      `yaml:"jump_pens"`
	Time          Centiseconds `yaml:"time"`
	TimePenalties float64      `yaml:"time_pens"`
	Notes         string       `yaml:"notes"`
}

// AddFault appends a fault parsed from the judge's shorthand.
func (r *Round) AddFault(s string) error {
	f, err := ParseFault(s)
	if err != nil {
		return err
	}
	r.Faults = append(r.Faults, f)
	return nil
}
