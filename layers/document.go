package layers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const manifestName = "manifest.json"

type docLayer struct {
	id       string
	name     string
	offset   image.Point
	img      *image.NRGBA
	mask     *image.Gray
	metadata []byte
}

func (l *docLayer) snapshot() Layer {
	return Layer{
		ID:      l.id,
		Name:    l.name,
		Bounds:  l.img.Bounds().Add(l.offset),
		HasMask: l.mask != nil,
	}
}

// Document is a LayerStore kept in memory and persisted to a directory of
// PNG files plus a manifest. Layers are ordered top first.
type Document struct {
	// IndexOffset is subtracted from indices passed to LayerAt. Some hosts
	// list extra entries ahead of the layers in their layer pickers.
	IndexOffset int

	width     int
	height    int
	layers    []*docLayer
	active    string
	selection image.Rectangle
}

func NewDocument(width, height int) *Document {
	return &Document{width: width, height: height}
}

type manifest struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Active    string          `json:"active,omitempty"`
	Selection *manifestRect   `json:"selection,omitempty"`
	Layers    []manifestLayer `json:"layers"`
}

type manifestRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type manifestLayer struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	X        int             `json:"x"`
	Y        int             `json:"y"`
	File     string          `json:"file"`
	Mask     string          `json:"mask,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// OpenDocument loads a directory written by Save.
func OpenDocument(dir string) (*Document, error) {
	raw, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestName, err)
	}

	d := NewDocument(m.Width, m.Height)
	d.active = m.Active
	if m.Selection != nil {
		d.selection = image.Rect(m.Selection.X, m.Selection.Y, m.Selection.X+m.Selection.W, m.Selection.Y+m.Selection.H)
	}

	for _, ml := range m.Layers {
		img, err := readImage(filepath.Join(dir, ml.File))
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", ml.Name, err)
		}

		l := &docLayer{id: ml.ID, name: ml.Name, offset: image.Pt(ml.X, ml.Y), img: toNRGBA(img)}
		if ml.Mask != "" {
			maskImg, err := readImage(filepath.Join(dir, ml.Mask))
			if err != nil {
				return nil, fmt.Errorf("layer %s mask: %w", ml.Name, err)
			}
			l.mask = toGray(maskImg)
		}

		if len(ml.Metadata) > 0 {
			l.metadata = []byte(ml.Metadata)
		}

		d.layers = append(d.layers, l)
	}

	return d, nil
}

// Save writes the document into dir, replacing any previous manifest.
func (d *Document) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	m := manifest{Width: d.width, Height: d.height, Active: d.active, Layers: []manifestLayer{}}
	if !d.selection.Empty() {
		m.Selection = &manifestRect{X: d.selection.Min.X, Y: d.selection.Min.Y, W: d.selection.Dx(), H: d.selection.Dy()}
	}

	for _, l := range d.layers {
		ml := manifestLayer{ID: l.id, Name: l.name, X: l.offset.X, Y: l.offset.Y, File: l.id + ".png"}
		if err := writePNG(filepath.Join(dir, ml.File), l.img); err != nil {
			return err
		}

		if l.mask != nil {
			ml.Mask = l.id + ".mask.png"
			if err := writePNG(filepath.Join(dir, ml.Mask), l.mask); err != nil {
				return err
			}
		}

		if len(l.metadata) > 0 {
			ml.Metadata = json.RawMessage(l.metadata)
		}

		m.Layers = append(m.Layers, ml)
	}

	raw, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, manifestName), raw, 0o644)
}

func (d *Document) find(id string) (*docLayer, int, error) {
	for i, l := range d.layers {
		if l.id == id {
			return l, i, nil
		}
	}

	return nil, -1, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

func (d *Document) ListLayers() ([]Layer, error) {
	out := make([]Layer, 0, len(d.layers))
	for _, l := range d.layers {
		out = append(out, l.snapshot())
	}

	return out, nil
}

func (d *Document) ActiveLayer() (Layer, error) {
	if d.active == "" {
		return Layer{}, ErrNoActiveLayer
	}

	l, _, err := d.find(d.active)
	if err != nil {
		return Layer{}, ErrNoActiveLayer
	}

	return l.snapshot(), nil
}

func (d *Document) SetActive(id string) error {
	if _, _, err := d.find(id); err != nil {
		return err
	}

	d.active = id
	return nil
}

func (d *Document) Layer(id string) (Layer, error) {
	l, _, err := d.find(id)
	if err != nil {
		return Layer{}, err
	}

	return l.snapshot(), nil
}

func (d *Document) LayerAt(index int) (Layer, error) {
	i := index - d.IndexOffset
	if i < 0 || i >= len(d.layers) {
		return Layer{}, fmt.Errorf("%w: %d", ErrLayerIndexOutOfRange, index)
	}

	return d.layers[i].snapshot(), nil
}

// CreateLayer decodes an encoded image and puts it on top of the stack.
func (d *Document) CreateLayer(name string, data []byte) (Layer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Layer{}, fmt.Errorf("decoding layer image: %w", err)
	}

	return d.AddImage(name, img), nil
}

// AddImage puts img on top of the stack. The first layer added becomes active.
func (d *Document) AddImage(name string, img image.Image) Layer {
	l := &docLayer{id: uuid.NewString(), name: name, img: toNRGBA(img)}
	d.layers = append([]*docLayer{l}, d.layers...)
	if d.active == "" {
		d.active = l.id
	}

	return l.snapshot()
}

func (d *Document) DuplicateLayer(id string) (Layer, error) {
	l, i, err := d.find(id)
	if err != nil {
		return Layer{}, err
	}

	c := &docLayer{
		id:       uuid.NewString(),
		name:     l.name + " copy",
		offset:   l.offset,
		img:      toNRGBA(l.img),
		metadata: append([]byte(nil), l.metadata...),
	}
	if l.mask != nil {
		c.mask = toGray(l.mask)
	}

	d.layers = append(d.layers[:i], append([]*docLayer{c}, d.layers[i:]...)...)
	return c.snapshot(), nil
}

func (d *Document) RemoveLayer(id string) error {
	_, i, err := d.find(id)
	if err != nil {
		return err
	}

	d.layers = append(d.layers[:i], d.layers[i+1:]...)
	if d.active == id {
		d.active = ""
	}

	return nil
}

func (d *Document) RenameLayer(id, name string) error {
	l, _, err := d.find(id)
	if err != nil {
		return err
	}

	l.name = name
	return nil
}

func (d *Document) ScaleLayer(id string, width, height int) error {
	l, _, err := d.find(id)
	if err != nil {
		return err
	}

	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid layer size %dx%d", width, height)
	}

	if l.img.Bounds().Dx() == width && l.img.Bounds().Dy() == height {
		return nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), l.img, l.img.Bounds(), draw.Src, nil)
	l.img = dst

	if l.mask != nil {
		mask := image.NewGray(dst.Bounds())
		draw.ApproxBiLinear.Scale(mask, mask.Bounds(), l.mask, l.mask.Bounds(), draw.Src, nil)
		l.mask = mask
	}

	return nil
}

func (d *Document) MoveLayer(id string, x, y int) error {
	l, _, err := d.find(id)
	if err != nil {
		return err
	}

	l.offset = image.Pt(x, y)
	return nil
}

// SetSelection replaces the selection. An empty rectangle clears it.
func (d *Document) SetSelection(r image.Rectangle) {
	d.selection = r.Intersect(image.Rect(0, 0, d.width, d.height))
}

func (d *Document) Selection() (image.Rectangle, bool, error) {
	if d.selection.Empty() {
		return image.Rectangle{}, false, nil
	}

	return d.selection, true, nil
}

func (d *Document) Size() (int, int, error) {
	return d.width, d.height, nil
}

// MaskFromSelection gives the layer a mask that is opaque where the
// selection covers it.
func (d *Document) MaskFromSelection(id string) error {
	l, _, err := d.find(id)
	if err != nil {
		return err
	}

	l.mask = selectionMask(l.img.Bounds(), l.offset, d.selection)
	return nil
}

func (d *Document) ExportLayer(id, path string) error {
	l, _, err := d.find(id)
	if err != nil {
		return err
	}

	return writePNG(path, l.img)
}

func (d *Document) ExportMask(id, path string) (bool, error) {
	l, _, err := d.find(id)
	if err != nil {
		return false, err
	}

	if l.mask == nil {
		return false, nil
	}

	return true, writePNG(path, l.mask)
}

func (d *Document) ExportSelection(path string) error {
	return writePNG(path, selectionMask(image.Rect(0, 0, d.width, d.height), image.Point{}, d.selection))
}

func (d *Document) AttachMetadata(id string, data []byte) error {
	l, _, err := d.find(id)
	if err != nil {
		return err
	}

	if !json.Valid(data) {
		return errors.New("metadata is not valid json")
	}

	l.metadata = append([]byte(nil), data...)
	return nil
}

func (d *Document) ReadMetadata(id string) ([]byte, bool, error) {
	l, _, err := d.find(id)
	if err != nil {
		return nil, false, err
	}

	if len(l.metadata) == 0 {
		return nil, false, nil
	}

	return append([]byte(nil), l.metadata...), true, nil
}

func selectionMask(bounds image.Rectangle, offset image.Point, sel image.Rectangle) *image.Gray {
	mask := image.NewGray(bounds)
	local := sel.Sub(offset).Intersect(bounds)
	if !local.Empty() {
		draw.Draw(mask, local, &image.Uniform{C: color.Gray{Y: 255}}, image.Point{}, draw.Src)
	}

	return mask
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
