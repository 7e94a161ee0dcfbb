package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
	"github.com/ayunami2000/sdlayers/sdapi"
)

func baseValues() form.Values {
	return form.Values{
		"seed":               "",
		"batch_size":         1,
		"steps":              50,
		"mask_blur":          4,
		"width":              512,
		"height":             512,
		"cfg":                7.5,
		"denoising_strength": 0.8,
		"samplers":           0,
	}
}

func TestText2ImgScenario(t *testing.T) {
	stored := config.Settings{APIBase: "http://localhost:7860", Prompt: "a cat"}
	values := baseValues().Merge(form.Values{"prompt_prefix": "oil painting of", "width": 500, "height": 300})

	data, err := BuildRequest(ModeText2Img, stored, values)
	require.NoError(t, err)
	assert.Equal(t, "oil painting of a cat", data.Prompt)
	assert.Equal(t, "", data.NegativePrompt)
	assert.Equal(t, 504, data.Width)
	assert.Equal(t, 304, data.Height)
	assert.Equal(t, "Euler a", data.SamplerIndex)
	assert.Equal(t, int64(-1), data.Seed)
	require.NotNil(t, data.MaskBlur)
	assert.Equal(t, 4, *data.MaskBlur)
	assert.Nil(t, data.ResizeMode)
	assert.Nil(t, data.Mask)
}

func TestRequestModes(t *testing.T) {
	stored := config.Settings{Prompt: "a cat", NegativePrompt: "blurry"}
	values := baseValues().Merge(form.Values{
		"negative_prompt_prefix": "ugly,",
		"resize_mode":            2,
		"invert_mask":            true,
		"inpaint_full_res":       true,
		"samplers":               7,
		"batch_size":             55,
		"seed":                   "1234",
	})

	img2img, err := BuildRequest(ModeImg2Img, stored, values)
	require.NoError(t, err)
	assert.Equal(t, "ugly, blurry", img2img.NegativePrompt)
	assert.Equal(t, "DPM++ 2M", img2img.SamplerIndex)
	assert.Equal(t, MaxBatchSize, img2img.BatchSize)
	assert.Equal(t, int64(1234), img2img.Seed)
	require.NotNil(t, img2img.ResizeMode)
	assert.Equal(t, 2, *img2img.ResizeMode)
	assert.Nil(t, img2img.MaskBlur)

	inpaint, err := BuildRequest(ModeInpainting, stored, values)
	require.NoError(t, err)
	require.NotNil(t, inpaint.InpaintFullResPadding)
	assert.Equal(t, 10, *inpaint.InpaintFullResPadding)
	assert.Equal(t, 1, *inpaint.InpaintingMaskInvert)
	assert.True(t, *inpaint.InpaintFullRes)
	assert.Equal(t, 4, *inpaint.MaskBlur)

	WithInitImage(inpaint, "aW1n")
	WithMask(inpaint, "bWFzaw==")
	assert.Equal(t, []string{"aW1n"}, inpaint.InitImages)
	assert.Equal(t, "bWFzaw==", *inpaint.Mask)

	values["invert_mask"] = false
	inpaint, err = BuildRequest(ModeInpainting, stored, values)
	require.NoError(t, err)
	assert.Equal(t, 0, *inpaint.InpaintingMaskInvert)
}

func TestUnknownSampler(t *testing.T) {
	_, err := BuildRequest(ModeText2Img, config.Settings{}, baseValues().Merge(form.Values{"samplers": len(Samplers)}))
	assert.ErrorIs(t, err, ErrUnknownSampler)
}

func TestClampBatch(t *testing.T) {
	for n := -100; n <= 100; n++ {
		assert.Equal(t, max(1, min(20, n)), ClampBatch(n))
	}
}

func TestSeedOrRandom(t *testing.T) {
	for _, v := range []any{nil, 0, "", "  ", "0", int64(0), 0.0, "abc"} {
		assert.Equal(t, int64(-1), SeedOrRandom(v), "%#v", v)
	}

	assert.Equal(t, int64(42), SeedOrRandom(42))
	assert.Equal(t, int64(42), SeedOrRandom("42"))
	assert.Equal(t, int64(-1), SeedOrRandom(-1))
	assert.Equal(t, int64(-7), SeedOrRandom(-7))
	assert.Equal(t, int64(3000000000), SeedOrRandom(int64(3000000000)))
}

func TestSamplerRoundTrip(t *testing.T) {
	require.Len(t, Samplers, 18)
	for _, name := range Samplers {
		got, err := SamplerName(SamplerIndex(name))
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
	assert.Equal(t, -1, SamplerIndex("nope"))
}

func TestControlUnitsAttached(t *testing.T) {
	data := &sdapi.GenerationRequest{}
	WithControlUnits(data, nil)
	assert.Nil(t, data.AlwaysonScripts)

	WithControlUnits(data, []sdapi.ControlUnit{DefaultControlUnit(), DefaultControlUnit()})
	assert.Len(t, data.AlwaysonScripts["controlnet"].Args, 2)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "txt2img", ModeText2Img.String())
	assert.Equal(t, "inpainting", ModeInpainting.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
}
