package form

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// FlagName maps a field name to its command line flag.
func FlagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// Bind registers one flag per field, seeded with defaults.
func Bind(fs *pflag.FlagSet, fields []Field, defaults Values, lookup Lookup) {
	for _, f := range fields {
		name := FlagName(f.Name)
		usage := f.Label
		if f.Ranged() {
			usage += " [" + strconv.FormatFloat(f.Min, 'g', -1, 64) + ", " + strconv.FormatFloat(f.Max, 'g', -1, 64) + "]"
		}

		def := defaults[f.Name]
		switch f.Kind {
		case KindInt, KindLayer:
			fs.Int(name, cast.ToInt(def), usage)
		case KindFloat:
			fs.Float64(name, cast.ToFloat64(def), usage)
		case KindBool:
			fs.Bool(name, cast.ToBool(def), usage)
		case KindChoice:
			choices := f.Choices(lookup)
			value := cast.ToString(def)
			if i := cast.ToInt(def); i >= 0 && i < len(choices) {
				value = choices[i]
			}
			if len(choices) > 0 {
				usage += " (" + strings.Join(choices, " | ") + ")"
			}
			fs.String(name, value, usage)
		default:
			fs.String(name, cast.ToString(def), usage)
		}
	}
}

// Collect reads every bound field back from fs.
func Collect(fs *pflag.FlagSet, fields []Field) Values {
	values := Values{}
	for _, f := range fields {
		flag := fs.Lookup(FlagName(f.Name))
		if flag == nil {
			continue
		}

		switch f.Kind {
		case KindInt, KindLayer:
			values[f.Name], _ = fs.GetInt(flag.Name)
		case KindFloat:
			values[f.Name], _ = fs.GetFloat64(flag.Name)
		case KindBool:
			values[f.Name], _ = fs.GetBool(flag.Name)
		default:
			values[f.Name] = flag.Value.String()
		}
	}

	return values
}
