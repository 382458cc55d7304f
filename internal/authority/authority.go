package authority

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks authority definitions that cannot be used.
var ErrInvalid = errors.New("invalid authority definition")

// Category classifies what kind of thing an authority names.
type Category string

const (
	CategorySubject      Category = "subject"
	CategoryActivity     Category = "activity"
	CategoryLocation     Category = "location"
	CategoryLocationType Category = "location_type"
	CategoryContentType  Category = "content_type"
	CategoryEquipment    Category = "equipment"
	CategoryWeather      Category = "weather"
	CategoryPerson       Category = "person"
	CategoryCharacter    Category = "character"
	CategoryBreed        Category = "breed"
)

var categories = []Category{
	CategorySubject,
	CategoryActivity,
	CategoryLocation,
	CategoryLocationType,
	CategoryContentType,
	CategoryEquipment,
	CategoryWeather,
	CategoryPerson,
	CategoryCharacter,
	CategoryBreed,
}

// Categories returns every known category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory converts a raw value into a Category, rejecting unknown names.
func ParseCategory(value string) (Category, error) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, c := range categories {
		if c == normalized {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalid, value)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Authority is one canonical tag with the raw spellings that map to it.
type Authority struct {
	CanonicalName string   `json:"canonical_name" yaml:"canonical_name" validate:"required"`
	Category      Category `json:"category" yaml:"category" validate:"required"`
	Aliases       []string `json:"aliases" yaml:"aliases" validate:"min=1,dive,required"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
}

func (a Authority) clone() Authority {
	a.Aliases = append([]string(nil), a.Aliases...)
	return a
}
