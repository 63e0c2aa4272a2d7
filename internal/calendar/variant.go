package calendar

import "strings"

// Variant names the bell-time layout that applies to a school day.
type Variant uint8

const (
	// VariantNone means no variant was recorded for the day.
	VariantNone Variant = iota
	Regular
	Conference
	Homeroom
	PTC
	// Unrecognized is any label that doesn't name one of the known variants.
	Unrecognized
)

// Variants lists the variants that own a bell schedule.
var Variants = []Variant{Regular, Conference, Homeroom, PTC}

var variantNames = map[Variant]string{
	VariantNone:  "None",
	Regular:      "Regular",
	Conference:   "Conference",
	Homeroom:     "Homeroom",
	PTC:          "PTC",
	Unrecognized: "Unrecognized",
}

// ParseVariant maps a schedule label from the calendar data to a Variant. It never fails: empty text and the
// literal "None" yield VariantNone, unknown labels yield Unrecognized.
func ParseVariant(label string) Variant {
	label = strings.TrimSpace(label)
	if label == "" || label == "None" {
		return VariantNone
	}

	for v, name := range variantNames {
		if v != VariantNone && v != Unrecognized && strings.EqualFold(name, label) {
			return v
		}
	}

	return Unrecognized
}

// Known reports whether v is one of the variants that own a bell schedule.
func (v Variant) Known() bool {
	return v >= Regular && v <= PTC
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}

	return variantNames[Unrecognized]
}

// MarshalText implements the encoding.TextMarshaler interface.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (v *Variant) UnmarshalText(text []byte) error {
	*v = ParseVariant(string(text))
	return nil
}
