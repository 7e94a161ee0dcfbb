package render

import (
	"errors"
	"fmt"

	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/session"
)

var ErrNoSelection = errors.New("inpainting must use either a selection or layer mask")

// LayerBase64 exports a layer through a staging file.
func LayerBase64(s *session.Session, layerID string) (string, error) {
	path := s.Temp.Path(fmt.Sprintf("layer%d.png", s.NextID()))
	return exportBase64(path, func(path string) (bool, error) {
		return true, s.Store.ExportLayer(layerID, path)
	})
}

// InpaintMask prefers the selection and falls back to the layer's own mask.
func InpaintMask(s *session.Session, layer layers.Layer) (string, error) {
	_, selected, err := s.Store.Selection()
	if err != nil {
		return "", err
	}

	path := s.Temp.Path(fmt.Sprintf("mask%d.png", s.NextID()))
	if selected {
		return exportBase64(path, func(path string) (bool, error) {
			return true, s.Store.ExportSelection(path)
		})
	}

	if layer.HasMask {
		return exportBase64(path, func(path string) (bool, error) {
			return s.Store.ExportMask(layer.ID, path)
		})
	}

	return "", ErrNoSelection
}
