package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/sdapi"
	"github.com/ayunami2000/sdlayers/utils"
)

var ErrMalformedInfo = errors.New("malformed info in server response")

// Result lists the layers created from one response, top first.
type Result struct {
	Generated  []layers.Layer
	Annotators []layers.Layer
}

func (r *Result) All() []layers.Layer {
	return append(append([]layers.Layer{}, r.Generated...), r.Annotators...)
}

// Materialize turns every image of res into a layer. Images past the seed
// count are annotator output and are dropped when skipAnnotator is set.
// Every image is decoded before any layer is created, and layers created
// before a failure are removed again, so an error leaves store unchanged.
func Materialize(store layers.LayerStore, res *sdapi.GenerationResponse, skipAnnotator bool) (*Result, error) {
	info, err := res.DecodeInfo()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInfo, err)
	}

	decoded := make([][]byte, len(res.Images))
	for i, encoded := range res.Images {
		if i >= len(info.AllSeeds) && skipAnnotator {
			continue
		}

		decoded[i], err = sdapi.DecodeImage(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", sdapi.ErrDecode, i, err)
		}
	}

	result := &Result{}
	if err := materialize(store, info, decoded, result); err != nil {
		for _, layer := range result.All() {
			_ = store.RemoveLayer(layer.ID)
		}
		return nil, err
	}

	return result, nil
}

func materialize(store layers.LayerStore, info *sdapi.GenerationInfo, decoded [][]byte, result *Result) error {
	for i, raw := range decoded {
		if raw == nil {
			continue
		}

		if i >= len(info.AllSeeds) {
			layer, err := store.CreateLayer("Annotator Layer", raw)
			if err != nil {
				return err
			}
			result.Annotators = append(result.Annotators, layer)
			continue
		}

		seed := info.AllSeeds[i]
		layer, err := store.CreateLayer(fmt.Sprintf("Generated Layer %d", seed), raw)
		if err != nil {
			return err
		}
		result.Generated = append(result.Generated, layer)

		provenance := Provenance{Info: utils.At(info.Infotexts, i, ""), Seed: seed}
		if err := SaveMetadata(store, layer.ID, &provenance); err != nil {
			return err
		}
	}

	return nil
}

// Geometry is applied to every materialized layer.
type Geometry struct {
	// Size resizes when non-zero.
	Size image.Point
	// Offset moves layers when Translate is set.
	Offset    image.Point
	Translate bool
	// MaskSelection masks layers by the current selection.
	MaskSelection bool
}

// GeometryFor mirrors the region that was sent for mode. source is the layer
// the init image came from and is ignored for text to image.
func GeometryFor(store layers.LayerStore, mode Mode, source layers.Layer) (Geometry, error) {
	width, height, err := store.Size()
	if err != nil {
		return Geometry{}, err
	}

	whole := image.Rect(0, 0, width, height)
	sel, selected, err := store.Selection()
	if err != nil {
		return Geometry{}, err
	}

	switch mode {
	case ModeText2Img:
		region := whole
		if selected {
			region = sel
		}
		return Geometry{
			Size:          region.Size(),
			Offset:        region.Min,
			Translate:     true,
			MaskSelection: selected && sel != whole,
		}, nil
	case ModeImg2Img:
		return Geometry{Size: source.Bounds.Size(), Offset: source.Bounds.Min, Translate: true}, nil
	default:
		return Geometry{Size: whole.Size(), Translate: true}, nil
	}
}

func ApplyGeometry(store layers.LayerStore, created []layers.Layer, geom Geometry) error {
	for _, layer := range created {
		if geom.Size.X > 0 && geom.Size.Y > 0 {
			if err := store.ScaleLayer(layer.ID, geom.Size.X, geom.Size.Y); err != nil {
				return err
			}
		}

		if geom.Translate {
			if err := store.MoveLayer(layer.ID, geom.Offset.X, geom.Offset.Y); err != nil {
				return err
			}
		}

		if geom.MaskSelection {
			if err := store.MaskFromSelection(layer.ID); err != nil {
				return err
			}
		}
	}

	return nil
}
