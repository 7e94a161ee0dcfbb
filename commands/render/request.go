package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
	"github.com/ayunami2000/sdlayers/sdapi"
	"github.com/ayunami2000/sdlayers/utils"
)

var ErrUnknownSampler = errors.New("unknown sampler")

type Mode int

const (
	ModeText2Img Mode = iota
	ModeImg2Img
	ModeInpainting
)

func (m Mode) String() string {
	switch m {
	case ModeText2Img:
		return "txt2img"
	case ModeImg2Img:
		return "img2img"
	case ModeInpainting:
		return "inpainting"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ClampBatch(n int) int {
	return utils.Clamp(n, 1, MaxBatchSize)
}

// SeedOrRandom maps unset, empty and zero seeds to -1.
func SeedOrRandom(v any) int64 {
	if v == nil {
		return -1
	}

	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return -1
	}

	seed, err := cast.ToInt64E(v)
	if err != nil || seed == 0 {
		return -1
	}

	return seed
}

func SamplerName(index int) (string, error) {
	if index < 0 || index >= len(Samplers) {
		return "", fmt.Errorf("%w: index %d", ErrUnknownSampler, index)
	}

	return Samplers[index], nil
}

func SamplerIndex(name string) int {
	return utils.IndexOf(Samplers, name)
}

// BuildRequest assembles the fields shared by every mode from the stored
// prompts and the dialog values.
func BuildRequest(mode Mode, stored config.Settings, values form.Values) (*sdapi.GenerationRequest, error) {
	sampler, err := SamplerName(values.Int("samplers"))
	if err != nil {
		return nil, err
	}

	data := &sdapi.GenerationRequest{
		Prompt:            utils.JoinPrompt(values.String("prompt_prefix"), stored.Prompt),
		NegativePrompt:    utils.JoinPrompt(values.String("negative_prompt_prefix"), stored.NegativePrompt),
		CfgScale:          values.Float("cfg"),
		DenoisingStrength: values.Float("denoising_strength"),
		Steps:             values.Int("steps"),
		Width:             utils.RoundToMultiple(values.Int("width"), 8),
		Height:            utils.RoundToMultiple(values.Int("height"), 8),
		SamplerIndex:      sampler,
		BatchSize:         ClampBatch(values.Int("batch_size")),
		Seed:              SeedOrRandom(values["seed"]),
	}

	switch mode {
	case ModeText2Img:
		data.MaskBlur = ptr(values.Int("mask_blur"))
	case ModeImg2Img:
		data.ResizeMode = ptr(values.Int("resize_mode"))
	case ModeInpainting:
		data.ResizeMode = ptr(values.Int("resize_mode"))
		data.MaskBlur = ptr(values.Int("mask_blur"))
		data.InpaintFullRes = ptr(values.Bool("inpaint_full_res"))
		data.InpaintFullResPadding = ptr(10)
		invert := 0
		if values.Bool("invert_mask") {
			invert = 1
		}
		data.InpaintingMaskInvert = &invert
	}

	return data, nil
}

// WithInitImage sets the source image for img2img and inpainting.
func WithInitImage(data *sdapi.GenerationRequest, b64 string) {
	data.InitImages = []string{b64}
}

func WithMask(data *sdapi.GenerationRequest, b64 string) {
	data.Mask = &b64
}

// WithControlUnits attaches control units; nothing is attached when empty.
func WithControlUnits(data *sdapi.GenerationRequest, units []sdapi.ControlUnit) {
	if len(units) == 0 {
		return
	}

	data.AlwaysonScripts = map[string]sdapi.ScriptArgs{
		"controlnet": {Args: units},
	}
}

func ptr[V any](v V) *V {
	return &v
}
