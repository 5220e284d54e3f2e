package nominate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/c4hscore/internal/domain/model"
	"golang.org/x/text/unicode/norm"
)

// Summary counts what an import created.
type Summary struct {
	Rows        int
	Riders      int
	Horses      int
	Combos      int
	JumpClasses int
	Entries     int
}

// Import looks up or creates the rider, horse, combo and class of every row
// and enters the combo in the class's first round. Existing records are reused
// as they are; an existing combo keeps its rider and horse.
// New classes are added to the event's first arena.
func Import(ctx context.Context, ev *model.Event, src Source) (Summary, error) {
	var sum Summary
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}
		if err := importRow(ev, row, &sum); err != nil {
			return sum, fmt.Errorf("line %d: %w", row.Line, err)
		}
		sum.Rows++
	}
}

func importRow(ev *model.Event, row Row, sum *Summary) error {
	comboID := NormalizeName(row.ComboID)
	if comboID == "" {
		return ErrNoComboID
	}

	var rider *model.Rider
	if name := NormalizeName(row.RiderName); name != "" {
		given, surname := SplitName(name)
		found := ev.GetRiders(model.Filter{"surname": surname, "given_name": given})
		if len(found) > 0 {
			rider = found[0]
		} else {
			r, err := ev.NewRider(surname, given)
			if err != nil {
				return err
			}
			rider = r
			sum.Riders++
		}
	}

	var horse *model.Horse
	if name := NormalizeName(row.HorseName); name != "" {
		found := ev.GetHorses(model.Filter{"name": name})
		if len(found) > 0 {
			horse = found[0]
		} else {
			h, err := ev.NewHorse(name)
			if err != nil {
				return err
			}
			horse = h
			sum.Horses++
		}
	}

	if _, ok := ev.GetCombo(comboID); !ok {
		if _, err := ev.NewCombo(comboID, rider, horse); err != nil {
			return err
		}
		sum.Combos++
	}

	number := NormalizeName(row.Class)
	if number == "" {
		return nil
	}
	jc, ok := ev.FindJumpClass(number)
	if !ok {
		arena, err := firstArena(ev)
		if err != nil {
			return err
		}
		jc = arena.NewJumpClass()
		jc.Number = number
		jc.Name = "Class " + number
		ev.Update()
		sum.JumpClasses++
	}

	if _, ok := jc.GetRound(model.RoundOne, comboID); !ok {
		if _, err := jc.NewRound(model.RoundOne, comboID); err != nil {
			return err
		}
		ev.Update()
		sum.Entries++
	}
	return nil
}

func firstArena(ev *model.Event) (*model.Arena, error) {
	if len(ev.Arenas) > 0 {
		return ev.Arenas[0], nil
	}
	return ev.NewArena("1", "Arena 1")
}

// NormalizeName composes Unicode (NFC) and collapses runs of whitespace so that
// names typed on different machines compare equal.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// SplitName splits a full rider name into given name (first word) and surname (the rest).
func SplitName(full string) (given, surname string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
