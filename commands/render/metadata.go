package render

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayunami2000/sdlayers/layers"
)

var ErrMalformedMetadata = errors.New("layer metadata is not a json object")

// Provenance is attached to every generated layer.
type Provenance struct {
	Info string `json:"info"`
	Seed int64  `json:"seed"`
}

// ControlSettings is attached to layers used as control inputs.
type ControlSettings struct {
	Module        string  `json:"module"`
	Model         string  `json:"model"`
	Weight        float64 `json:"weight"`
	ResizeMode    string  `json:"resize_mode"`
	LowVRAM       bool    `json:"lowvram"`
	ControlMode   int     `json:"control_mode"`
	GuidanceStart float64 `json:"guidance_start"`
	GuidanceEnd   float64 `json:"guidance_end"`
	Guidance      float64 `json:"guidance"`
	ProcessorRes  float64 `json:"processor_res"`
	ThresholdA    float64 `json:"threshold_a"`
	ThresholdB    float64 `json:"threshold_b"`
}

func SaveMetadata(store layers.LayerStore, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return store.AttachMetadata(id, raw)
}

// LoadMetadata decodes a layer's metadata into v. v keeps its current
// values for missing keys, so pre-filled defaults act as fallbacks.
func LoadMetadata(store layers.LayerStore, id string, v any) (bool, error) {
	raw, ok, err := store.ReadMetadata(id)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}

	return true, nil
}

// LayerInfo renders a layer's metadata for display.
func LayerInfo(store layers.LayerStore, id string) (string, error) {
	layer, err := store.Layer(id)
	if err != nil {
		return "", err
	}

	data := map[string]any{}
	if _, err := LoadMetadata(store, id, &data); err != nil {
		return "", err
	}

	text := "{}"
	if len(data) > 0 {
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		text = string(raw)
	}

	return fmt.Sprintf("Layer %s has the following associated data:\n%s", layer.Name, text), nil
}
