package model

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// EA registration number lengths.
const (
	riderEADigits = 7
	horseEADigits = 8
)

// Rider is a competitor. Either name may be empty until it is known.
type Rider struct {
	Surname   string
	GivenName string
	eaNumber  string
}

// EANumber returns the rider's EA registration number, or "" if not recorded.
func (r *Rider) EANumber() string { return r.eaNumber }

// SetEANumber sets the EA number. It must be exactly 7 decimal digits.
// On error the previous value is kept.
func (r *Rider) SetEANumber(n string) error {
	if !validEANumber(n, riderEADigits) {
		return fmt.Errorf("%w: rider EA number should be %d digits, got %q", ErrInvalidFormat, riderEADigits, n)
	}
	r.eaNumber = n
	return nil
}

// FullName joins the given name and surname.
func (r *Rider) FullName() string {
	switch {
	case r.GivenName == "":
		return r.Surname
	case r.Surname == "":
		return r.GivenName
	}
	return r.GivenName + " " + r.Surname
}

// Ref returns the lookup key for this rider.
func (r *Rider) Ref() RiderRef {
	return RiderRef{Surname: r.Surname, GivenName: r.GivenName}
}

type riderDoc struct {
	Surname   string `yaml:"surname"`
	GivenName string `yaml:"given_name"`
	EANumber  string `yaml:"ea_number"`
}

// MarshalYAML implements yaml.Marshaler.
func (r *Rider) MarshalYAML() (interface{}, error) {
	return riderDoc{Surname: r.Surname, GivenName: r.GivenName, EANumber: r.eaNumber}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Stored values are trusted.
func (r *Rider) UnmarshalYAML(value *yaml.Node) error {
	var doc riderDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*r = Rider{Surname: doc.Surname, GivenName: doc.GivenName, eaNumber: doc.EANumber}
	return nil
}

// Horse is a competing horse, identified by name within an event.
type Horse struct {
	Name     string
	eaNumber string
}

// EANumber returns the horse's EA registration number, or "" if not recorded.
func (h *Horse) EANumber() string { return h.eaNumber }

// SetEANumber sets the EA number. It must be exactly 8 decimal digits.
// On error the previous value is kept.
func (h *Horse) SetEANumber(n string) error {
	if !validEANumber(n, horseEADigits) {
		return fmt.Errorf("%w: horse EA number should be %d digits, got %q", ErrInvalidFormat, horseEADigits, n)
	}
	h.eaNumber = n
	return nil
}

// Ref returns the lookup key for this horse.
func (h *Horse) Ref() HorseRef {
	return HorseRef{Name: h.Name}
}

type horseDoc struct {
	Name     string `yaml:"name"`
	EANumber string `yaml:"ea_number"`
}

// MarshalYAML implements yaml.Marshaler.
func (h *Horse) MarshalYAML() (interface{}, error) {
	return horseDoc{Name: h.Name, EANumber: h.eaNumber}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Stored values are trusted.
func (h *Horse) UnmarshalYAML(value *yaml.Node) error {
	var doc horseDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*h = Horse{Name: doc.Name, eaNumber: doc.EANumber}
	return nil
}

func validEANumber(n string, digits int) bool {
	if len(n) != digits {
		return false
	}
	for i := 0; i < len(n); i++ {
		if n[i] < '0' || n[i] > '9' {
			return false
		}
	}
	return true
}

// RiderRef identifies a rider within its event.
type RiderRef struct {
	Surname   string `yaml:"surname"`
	GivenName string `yaml:"given_name"`
}

// HorseRef identifies a horse within its event.
type HorseRef struct {
	Name string `yaml:"name"`
}

// Combo is a rider/horse pairing entered under one entry id.
type Combo struct {
	ID    string    `yaml:"id"`
	UID   string    `yaml:"uid"`
	Rider *RiderRef `yaml:"rider,omitempty"`
	Horse *HorseRef `yaml:"horse,omitempty"`
}

var riderFields = fieldTable[Rider]{
	"surname":    func(r *Rider) string { return r.Surname },
	"given_name": func(r *Rider) string { return r.GivenName },
	"ea_number":  func(r *Rider) string { return r.eaNumber },
}

var horseFields = fieldTable[Horse]{
	"name":      func(h *Horse) string { return h.Name },
	"ea_number": func(h *Horse) string { return h.eaNumber },
}

var comboFields = fieldTable[Combo]{
	"id":  func(c *Combo) string { return c.ID },
	"uid": func(c *Combo) string { return c.UID },
	"rider_surname": func(c *Combo) string {
		if c.Rider == nil {
			return ""
		}
		return c.Rider.Surname
	},
	"rider_given_name": func(c *Combo) string {
		if c.Rider == nil {
			return ""
		}
		return c.Rider.GivenName
	},
	"horse": func(c *Combo) string {
		if c.Horse == nil {
			return ""
		}
		return c.Horse.Name
	},
}
