package form

import (
	"github.com/spf13/cast"

	"github.com/ayunami2000/sdlayers/utils"
)

// Values holds dialog responses keyed by field name.
type Values map[string]any

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v Values) String(name string) string {
	return cast.ToString(v[name])
}

func (v Values) Int(name string) int {
	return cast.ToInt(v[name])
}

func (v Values) Int64(name string) int64 {
	return cast.ToInt64(v[name])
}

func (v Values) Float(name string) float64 {
	return cast.ToFloat64(v[name])
}

func (v Values) Bool(name string) bool {
	return cast.ToBool(v[name])
}

// Merge returns v with the keys of other laid over it.
func (v Values) Merge(other Values) Values {
	return Values(utils.Merge(map[string]any(v), map[string]any(other)))
}
