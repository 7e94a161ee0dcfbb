package render

import (
	"encoding/base64"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/sdapi"
	"github.com/ayunami2000/sdlayers/session"
	"github.com/ayunami2000/sdlayers/utils"
)

// ControlUnit builds a control unit from a control layer. The layer is copied,
// the copy is scaled to multiples of 64 and exported, and then removed again.
func ControlUnit(s *session.Session, layerID string) (sdapi.ControlUnit, error) {
	unit := DefaultControlUnit()
	if _, err := LoadMetadata(s.Store, layerID, &unit); err != nil {
		return unit, err
	}

	source, err := s.Store.Layer(layerID)
	if err != nil {
		return unit, err
	}

	dup, err := s.Store.DuplicateLayer(layerID)
	if err != nil {
		return unit, err
	}

	defer func() {
		if err := s.Store.RemoveLayer(dup.ID); err != nil {
			s.Logger.Error("Unable to remove control layer copy", zap.String("layer", dup.ID), zap.Error(err))
		}
	}()

	width, height := controlSize(source.Bounds.Dx()), controlSize(source.Bounds.Dy())
	if err := s.Store.ScaleLayer(dup.ID, width, height); err != nil {
		return unit, err
	}

	id := s.NextID()
	unit.InputImage, err = exportBase64(s.Temp.Path(fmt.Sprintf("layer%d.png", id)), func(path string) (bool, error) {
		return true, s.Store.ExportLayer(dup.ID, path)
	})
	if err != nil {
		return unit, err
	}

	if source.HasMask {
		unit.Mask, err = exportBase64(s.Temp.Path(fmt.Sprintf("mask%d.png", id)), func(path string) (bool, error) {
			return s.Store.ExportMask(dup.ID, path)
		})
		if err != nil {
			return unit, err
		}
	}

	return unit, nil
}

// controlSize rounds a control image side to a multiple of 64. Sides under
// 32 would round to zero and are raised to 64 instead.
func controlSize(v int) int {
	return max(utils.RoundToMultiple(v, 64), 64)
}

// exportBase64 runs export against path and returns the file as base64.
// An export that reports false yields an empty string.
func exportBase64(path string, export func(string) (bool, error)) (string, error) {
	ok, err := export(path)
	if err != nil || !ok {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}
