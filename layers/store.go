package layers

import (
	"errors"
	"image"
)

var ErrNoActiveLayer = errors.New("no active layer")
var ErrLayerNotFound = errors.New("layer not found")
var ErrLayerIndexOutOfRange = errors.New("layer index out of range")

// Layer is a snapshot of a layer's identity and geometry.
type Layer struct {
	ID      string
	Name    string
	Bounds  image.Rectangle
	HasMask bool
}

// LayerStore is everything the generation commands need from the host editor.
// Exported images are written as PNG files so callers decide where staging
// files live and when they are removed.
type LayerStore interface {
	ListLayers() ([]Layer, error)
	ActiveLayer() (Layer, error)
	Layer(id string) (Layer, error)
	// LayerAt resolves an index coming from a host list widget.
	LayerAt(index int) (Layer, error)

	CreateLayer(name string, png []byte) (Layer, error)
	DuplicateLayer(id string) (Layer, error)
	RemoveLayer(id string) error
	RenameLayer(id, name string) error
	ScaleLayer(id string, width, height int) error
	MoveLayer(id string, x, y int) error
	MaskFromSelection(id string) error

	ExportLayer(id, path string) error
	// ExportMask reports false when the layer has no mask.
	ExportMask(id, path string) (bool, error)
	ExportSelection(path string) error

	// Selection reports the selection bounds and whether anything is selected.
	Selection() (image.Rectangle, bool, error)
	Size() (width, height int, err error)

	AttachMetadata(id string, data []byte) error
	ReadMetadata(id string) ([]byte, bool, error)
}
