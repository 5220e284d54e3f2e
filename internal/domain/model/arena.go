package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const defaultPlaces = 6

// Arena is a named ring holding jump classes.
type Arena struct {
	ID          string       `yaml:"id"`
	UID         string       `yaml:"uid"`
	Name        string       `yaml:"name"`
	JumpClasses []*JumpClass `yaml:"jumpclasses"`
	// LastClassID is the last id handed out by NewJumpClass. It never decreases.
	LastClassID int `yaml:"last_class_id"`
}

func newArena(id, name string) *Arena {
	return &Arena{ID: id, UID: newUID(), Name: name, JumpClasses: []*JumpClass{}}
}

// NewJumpClass appends a class with the next id in this arena's sequence.
// Ids whose number is already used by a class in the arena are skipped.
func (a *Arena) NewJumpClass() *JumpClass {
	a.LastClassID++
	for {
		if _, taken := a.GetJumpClassByNumber(strconv.Itoa(a.LastClassID)); !taken {
			break
		}
		a.LastClassID++
	}
	id := a.LastClassID
	number := strconv.Itoa(id)
	jc := &JumpClass{
		ID:      id,
		ArenaID: a.ID,
		Number:  number,
		Name:    "Class " + number,
		Places:  defaultPlaces,
		Rounds:  []*Round{},
	}
	a.JumpClasses = append(a.JumpClasses, jc)
	return jc
}

// GetJumpClass returns the class with the given id. If duplicates exist the last one wins.
func (a *Arena) GetJumpClass(id int) (*JumpClass, bool) {
	var found *JumpClass
	for _, jc := range a.JumpClasses {
		if jc.ID == id {
			found = jc
		}
	}
	return found, found != nil
}

// GetJumpClassByNumber returns the class whose display number matches.
func (a *Arena) GetJumpClassByNumber(number string) (*JumpClass, bool) {
	var found *JumpClass
	for _, jc := range a.JumpClasses {
		if jc.Number == number {
			found = jc
		}
	}
	return found, found != nil
}

var arenaFields = fieldTable[Arena]{
	"id":   func(a *Arena) string { return a.ID },
	"uid":  func(a *Arena) string { return a.UID },
	"name": func(a *Arena) string { return a.Name },
}

// JumpClass is a competition class run in an arena.
type JumpClass struct {
	ID      int    `yaml:"id"`
	ArenaID string `yaml:"arena_id"`
	// Number is the public class number, e.g. "8" or "8c".
	Number         string   `yaml:"number"`
	Name           string   `yaml:"name"`
	ArticleID      string   `yaml:"article,omitempty"`
	Description    string   `yaml:"description"`
	Height         int      `yaml:"height"` // cm
	Judge          string   `yaml:"judge"`
	CourseDesigner string   `yaml:"course_designer"`
	Places         int      `yaml:"places"`
	Rounds         []*Round `yaml:"rounds"`
}

// Ref returns the lookup key for this class.
func (jc *JumpClass) Ref() JumpClassRef {
	return JumpClassRef{ArenaID: jc.ArenaID, ClassID: jc.ID}
}

// NewRound enters comboID in a round of type t.
// A combo rides each round type at most once per class.
func (jc *JumpClass) NewRound(t RoundType, comboID string) (*Round, error) {
	for _, r := range jc.Rounds {
		if r.Type == t && r.ComboID == comboID {
			return nil, fmt.Errorf("%w: combo %s already in round %s of class %s", ErrDuplicateKey, comboID, t, jc.Number)
		}
	}
	r := &Round{JumpClass: jc.Ref(), Type: t, ComboID: comboID, Faults: []Fault{}}
	jc.Rounds = append(jc.Rounds, r)
	return r, nil
}

// GetRounds returns the rounds of type t in entry order. An empty t returns all rounds.
func (jc *JumpClass) GetRounds(t RoundType) []*Round {
	var out []*Round
	for _, r := range jc.Rounds {
		if t == "" || r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// GetRound returns comboID's round of type t.
func (jc *JumpClass) GetRound(t RoundType, comboID string) (*Round, bool) {
	for _, r := range jc.Rounds {
		if r.Type == t && r.ComboID == comboID {
			return r, true
		}
	}
	return nil, false
}

func newUID() string {
	return uuid.NewString()
}
