package users

import (
	"fmt"
	"strings"

	"github.com/amp-labs/amp-snippets/optional"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Criteria is the set of bounds a record must satisfy. An empty bound places no
// restriction. Age bounds are inclusive.
type Criteria struct {
	MinAge optional.Value[int]
	MaxAge optional.Value[int]
	City   optional.Value[string]
}

// FilterOption adds one bound to a Criteria.
type FilterOption func(*Criteria)

// WithMinAge keeps records with age >= minAge.
func WithMinAge(minAge int) FilterOption {
	return func(c *Criteria) {
		c.MinAge = optional.Some(minAge)
	}
}

// WithMaxAge keeps records with age <= maxAge.
func WithMaxAge(maxAge int) FilterOption {
	return func(c *Criteria) {
		c.MaxAge = optional.Some(maxAge)
	}
}

// WithCity keeps records whose city equals city, ignoring case.
func WithCity(city string) FilterOption {
	return func(c *Criteria) {
		c.City = optional.Some(city)
	}
}

// WithCriteria copies every bound set on other.
func WithCriteria(other Criteria) FilterOption {
	return func(c *Criteria) {
		c.MinAge = other.MinAge.OrElse(c.MinAge)
		c.MaxAge = other.MaxAge.OrElse(c.MaxAge)
		c.City = other.City.OrElse(c.City)
	}
}

// NewCriteria applies opts to an empty Criteria.
func NewCriteria(opts ...FilterOption) Criteria {
	var c Criteria

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Matches reports whether u satisfies every bound. A record without a usable age
// fails any age bound; likewise for city.
func (c Criteria) Matches(u User) bool {
	return c.matches(u, optional.Map(c.City, foldCity))
}

func (c Criteria) matches(u User, foldedCity optional.Value[string]) bool {
	if c.MinAge.NonEmpty() || c.MaxAge.NonEmpty() {
		age, ok := u.Age()
		if !ok {
			return false
		}

		if minAge, ok := c.MinAge.Get(); ok && age < minAge {
			return false
		}

		if maxAge, ok := c.MaxAge.Get(); ok && age > maxAge {
			return false
		}
	}

	if want, ok := foldedCity.Get(); ok {
		city, ok := u.City()
		if !ok || foldCity(city) != want {
			return false
		}
	}

	return true
}

func (c Criteria) String() string {
	var parts []string

	if v, ok := c.MinAge.Get(); ok {
		parts = append(parts, fmt.Sprintf("age>=%d", v))
	}

	if v, ok := c.MaxAge.Get(); ok {
		parts = append(parts, fmt.Sprintf("age<=%d", v))
	}

	if v, ok := c.City.Get(); ok {
		parts = append(parts, fmt.Sprintf("city=%q", v))
	}

	if len(parts) == 0 {
		return "any"
	}

	return strings.Join(parts, " ")
}

// Filter returns the records of users that satisfy every bound given by opts, in
// their original order. The result is a new slice; the records themselves are shared
// and left untouched. With no options every record is kept.
func Filter(users []User, opts ...FilterOption) []User {
	criteria := NewCriteria(opts...)
	foldedCity := optional.Map(criteria.City, foldCity)

	kept := make([]User, 0, len(users))

	for _, u := range users {
		if criteria.matches(u, foldedCity) {
			kept = append(kept, u)
		}
	}

	filterEvaluated.Add(float64(len(users)))
	filterKept.Add(float64(len(kept)))

	return kept
}

// foldCity is the comparison key for cities: NFC-normalised, then case-folded, so
// "NEW YORK", "new york" and "New York" compare equal.
func foldCity(city string) string {
	return cases.Fold().String(norm.NFC.String(city))
}
