// Package model contains the showjumping event aggregate and its records.
package model

import (
	"fmt"
	"time"

	"github.com/okian/c4hscore/internal/clock"
)

// neverSaved is the LastSave value of an event that has not been written yet.
var neverSaved = time.Date(1984, 4, 4, 13, 0, 0, 0, time.UTC)

// DateRange is the span of days an event runs.
type DateRange struct {
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

// Event is the aggregate root. It owns arenas, riders, horses and combos.
// It is not safe for concurrent use.
type Event struct {
	Name       string    `yaml:"name"`
	Filename   string    `yaml:"filename,omitempty"`
	Arenas     []*Arena  `yaml:"arenas"`
	Riders     []*Rider  `yaml:"riders"`
	Horses     []*Horse  `yaml:"horses"`
	Combos     []*Combo  `yaml:"combos"`
	Details    string    `yaml:"details"`
	Dates      DateRange `yaml:"dates"`
	LastSave   time.Time `yaml:"last_save"`
	LastChange time.Time `yaml:"last_change"`

	clock        clock.Clock
	defaultArena bool
}

// NewEvent creates an empty event running today.
func NewEvent(name string, opts ...Option) *Event {
	e := &Event{
		Name:     name,
		Arenas:   []*Arena{},
		Riders:   []*Rider{},
		Horses:   []*Horse{},
		Combos:   []*Combo{},
		LastSave: neverSaved,
		clock:    clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(e)
	}

	now := e.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	e.Dates = DateRange{Start: today, End: today}
	e.LastChange = now

	if e.defaultArena {
		e.Arenas = append(e.Arenas, newArena("1", "Arena 1"))
	}
	return e
}

// SetClock replaces the time source, e.g. after an event has been loaded from disk.
func (e *Event) SetClock(c clock.Clock) {
	e.clock = c
}

func (e *Event) now() time.Time {
	if e.clock == nil {
		e.clock = clock.NewSystem()
	}
	return e.clock.Now()
}

// Update stamps LastChange with the current time and returns it.
// Successive calls return strictly increasing times.
func (e *Event) Update() time.Time {
	now := e.now()
	if !now.After(e.LastChange) {
		now = e.LastChange.Add(time.Microsecond)
	}
	e.LastChange = now
	return now
}

// MarkSaved stamps LastSave with the current time and returns it.
func (e *Event) MarkSaved() time.Time {
	e.LastSave = e.now()
	return e.LastSave
}

// Saved reports whether the event has ever been written to disk.
func (e *Event) Saved() bool {
	return !e.LastSave.Equal(neverSaved)
}

// NewArena creates and appends an arena. The id must be unique within the event.
func (e *Event) NewArena(id, name string) (*Arena, error) {
	if len(e.GetArenas(Filter{"id": id})) > 0 {
		return nil, fmt.Errorf("%w: arena with id %s already exists", ErrDuplicateKey, id)
	}
	a := newArena(id, name)
	e.Arenas = append(e.Arenas, a)
	e.Update()
	return a, nil
}

// GetArenas returns arenas matching every field of f, in creation order.
// Fields: id, uid, name.
func (e *Event) GetArenas(f Filter) []*Arena {
	return filter(e.Arenas, arenaFields, f)
}

// GetArena returns the arena with the given id.
func (e *Event) GetArena(id string) (*Arena, bool) {
	found := e.GetArenas(Filter{"id": id})
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// NewRider creates and appends a rider. Only one rider may exist per
// (surname, given name) pair, including the pair of two empty names.
func (e *Event) NewRider(surname, givenName string) (*Rider, error) {
	if len(e.GetRiders(Filter{"surname": surname, "given_name": givenName})) > 0 {
		return nil, fmt.Errorf("%w: rider %s %s already exists", ErrDuplicateKey, surname, givenName)
	}
	r := &Rider{Surname: surname, GivenName: givenName}
	e.Riders = append(e.Riders, r)
	e.Update()
	return r, nil
}

// GetRiders returns riders matching every field of f.
// Fields: surname, given_name, ea_number.
func (e *Event) GetRiders(f Filter) []*Rider {
	return filter(e.Riders, riderFields, f)
}

// NewHorse creates and appends a horse. Horse names are unique within the event.
func (e *Event) NewHorse(name string) (*Horse, error) {
	if len(e.GetHorses(Filter{"name": name})) > 0 {
		return nil, fmt.Errorf("%w: horse %s already exists", ErrDuplicateKey, name)
	}
	h := &Horse{Name: name}
	e.Horses = append(e.Horses, h)
	e.Update()
	return h, nil
}

// GetHorses returns horses matching every field of f.
// Fields: name, ea_number.
func (e *Event) GetHorses(f Filter) []*Horse {
	return filter(e.Horses, horseFields, f)
}

// NewCombo pairs rider and horse under entry id. Either may be nil.
func (e *Event) NewCombo(id string, rider *Rider, horse *Horse) (*Combo, error) {
	if _, ok := e.GetCombo(id); ok {
		return nil, fmt.Errorf("%w: combo id %s already exists", ErrDuplicateKey, id)
	}
	c := &Combo{ID: id, UID: newUID()}
	if rider != nil {
		ref := rider.Ref()
		c.Rider = &ref
	}
	if horse != nil {
		ref := horse.Ref()
		c.Horse = &ref
	}
	e.Combos = append(e.Combos, c)
	e.Update()
	return c, nil
}

// GetCombo returns the combo with the given id.
func (e *Event) GetCombo(id string) (*Combo, bool) {
	for _, c := range e.Combos {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// GetCombos returns combos matching every field of f.
// Fields: id, uid, rider_surname, rider_given_name, horse.
func (e *Event) GetCombos(f Filter) []*Combo {
	return filter(e.Combos, comboFields, f)
}

// ComboRider resolves the rider a combo refers to.
func (e *Event) ComboRider(c *Combo) (*Rider, bool) {
	if c == nil || c.Rider == nil {
		return nil, false
	}
	found := e.GetRiders(Filter{"surname": c.Rider.Surname, "given_name": c.Rider.GivenName})
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// ComboHorse resolves the horse a combo refers to.
func (e *Event) ComboHorse(c *Combo) (*Horse, bool) {
	if c == nil || c.Horse == nil {
		return nil, false
	}
	found := e.GetHorses(Filter{"name": c.Horse.Name})
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// JumpClasses returns every class of every arena, arena by arena.
func (e *Event) JumpClasses() []*JumpClass {
	var out []*JumpClass
	for _, a := range e.Arenas {
		out = append(out, a.JumpClasses...)
	}
	return out
}

// FindJumpClass returns the first class across all arenas with the given number.
func (e *Event) FindJumpClass(number string) (*JumpClass, bool) {
	for _, a := range e.Arenas {
		if jc, ok := a.GetJumpClassByNumber(number); ok {
			return jc, true
		}
	}
	return nil, false
}

// ResolveJumpClass follows a round's class reference.
func (e *Event) ResolveJumpClass(ref JumpClassRef) (*JumpClass, bool) {
	a, ok := e.GetArena(ref.ArenaID)
	if !ok {
		return nil, false
	}
	return a.GetJumpClass(ref.ClassID)
}
