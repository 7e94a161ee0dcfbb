package form

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/ayunami2000/sdlayers/utils"
)

var ErrOutOfRange = errors.New("value out of range")
var ErrUnknownOption = errors.New("unknown option")

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	// KindChoice values are indices into the field's options.
	KindChoice
	// KindLayer values are layer indices as reported by the host.
	KindLayer
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindChoice:
		return "choice"
	case KindLayer:
		return "layer"
	default:
		return "unknown"
	}
}

// Field describes one dialog input.
type Field struct {
	Name  string
	Label string
	Kind  Kind
	// Min and Max bound numeric kinds when Max > Min.
	Min, Max float64
	Default  any
	Options  []string
	// OptionsKey names a settings key holding the options instead.
	OptionsKey string
	// SettingsKey pre-populates the field from a stored setting.
	SettingsKey string
}

func (f Field) Ranged() bool {
	return f.Max > f.Min
}

// Lookup reads stored settings. ok is false for unknown keys.
type Lookup func(key string) (any, bool)

// Choices resolves the option list of a choice field.
func (f Field) Choices(lookup Lookup) []string {
	if f.OptionsKey == "" || lookup == nil {
		return f.Options
	}

	v, ok := lookup(f.OptionsKey)
	if !ok {
		return f.Options
	}

	return cast.ToStringSlice(v)
}

// Defaults computes the pre-populated value of every field.
func Defaults(fields []Field, lookup Lookup) Values {
	values := Values{}
	for _, f := range fields {
		v := f.Default
		if f.SettingsKey != "" && lookup != nil {
			if stored, ok := lookup(f.SettingsKey); ok && stored != nil {
				v = stored
				if f.Kind == KindChoice {
					v = max(utils.IndexOf(f.Choices(lookup), cast.ToString(stored)), 0)
				}
			}
		}

		values[f.Name] = v
	}

	return values
}

// Validate coerces raw values to each field's kind and checks ranges.
func Validate(fields []Field, raw Values, lookup Lookup) (Values, error) {
	out := Values{}
	for k, v := range raw {
		out[k] = v
	}

	for _, f := range fields {
		v, ok := raw[f.Name]
		if !ok {
			continue
		}

		coerced, err := coerce(f, v, lookup)
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", f.Name, f.Kind, err)
		}

		out[f.Name] = coerced
	}

	return out, nil
}

func coerce(f Field, v any, lookup Lookup) (any, error) {
	switch f.Kind {
	case KindInt, KindLayer:
		i, err := cast.ToIntE(v)
		if err != nil {
			return nil, err
		}
		if f.Ranged() && (float64(i) < f.Min || float64(i) > f.Max) {
			return nil, fmt.Errorf("%w: %d not in [%g, %g]", ErrOutOfRange, i, f.Min, f.Max)
		}
		return i, nil
	case KindFloat:
		x, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		if f.Ranged() && (x < f.Min || x > f.Max) {
			return nil, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, x, f.Min, f.Max)
		}
		return x, nil
	case KindBool:
		return cast.ToBoolE(v)
	case KindChoice:
		choices := f.Choices(lookup)
		if i, err := cast.ToIntE(v); err == nil {
			if len(choices) > 0 && (i < 0 || i >= len(choices)) {
				return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(choices))
			}
			return i, nil
		}
		name := cast.ToString(v)
		if i := utils.IndexOf(choices, name); i >= 0 {
			return i, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, name)
	default:
		return cast.ToStringE(v)
	}
}
