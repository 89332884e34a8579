// Package users loads user records from JSON or YAML files and filters them by age and city.
//
// A record is a free-form mapping that must carry at least an integral "age" and a
// string "city". Every other field is kept verbatim:
//
//	all, err := users.Load(ctx, "users.json")
//	if err != nil {
//	    return err // *errors.IOError or *errors.ParseError
//	}
//
//	for _, u := range users.Filter(all, users.WithMinAge(25), users.WithCity("new york")) {
//	    fmt.Println(u)
//	}
package users

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	FieldAge  = "age"
	FieldCity = "city"
)

// User is one decoded record. Filtering never modifies it.
type User map[string]any

// Age returns the record's age when it is present and integral.
func (u User) Age() (int, bool) {
	return toInt(u[FieldAge])
}

// City returns the record's city when it is present and a string.
func (u User) City() (string, bool) {
	city, ok := u[FieldCity].(string)

	return city, ok
}

func (u User) String() string {
	data, err := json.Marshal(map[string]any(u))
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(u))
	}

	return string(data)
}

// validate checks the fields every record must carry.
func (u User) validate() error {
	raw, ok := u[FieldAge]
	if !ok {
		return fmt.Errorf("%w: %q", errMissingField, FieldAge)
	}

	if _, ok := toInt(raw); !ok {
		return fmt.Errorf("%w: %q must be an integer, got %v (%T)", errWrongFieldType, FieldAge, raw, raw)
	}

	raw, ok = u[FieldCity]
	if !ok {
		return fmt.Errorf("%w: %q", errMissingField, FieldCity)
	}

	if _, ok := raw.(string); !ok {
		return fmt.Errorf("%w: %q must be a string, got %v (%T)", errWrongFieldType, FieldCity, raw, raw)
	}

	return nil
}

// toInt accepts the integer shapes produced by the JSON and YAML decoders.
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}

		return int(v), true
	case float64:
		return floatToInt(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}

		f, err := v.Float64()
		if err != nil {
			return 0, false
		}

		return floatToInt(f)
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}

	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
	if f >= math.MaxInt || f < math.MinInt {
		return 0, false
	}

	return int(f), true
}
