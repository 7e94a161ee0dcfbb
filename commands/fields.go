package commands

import (
	"github.com/ayunami2000/sdlayers/commands/render"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
)

const PluginName = "sd"

const (
	GlobalName                 = PluginName + "-global"
	ChangeModelName            = PluginName + "-change-model"
	ControlNetLayerName        = PluginName + "-controlnet-layer"
	ControlNetLayerContextName = PluginName + "-controlnet-layer-context"
	Img2ImgName                = PluginName + "-img2img"
	Img2ImgContextName         = PluginName + "-img2img-context"
	InpaintingName             = PluginName + "-inpainting"
	InpaintingContextName      = PluginName + "-inpainting-context"
	LayerInfoName              = PluginName + "-layer-info"
	LayerInfoContextName       = PluginName + "-layer-info-context"
	Text2ImgName               = PluginName + "-text2img"
	Text2ImgContextName        = PluginName + "-text2img-context"
)

var generationFields = []form.Field{
	{Name: "prompt_prefix", Label: "Prompt prefix", Kind: form.KindString, Default: ""},
	{Name: "negative_prompt_prefix", Label: "Negative prompt prefix", Kind: form.KindString, Default: ""},
	{Name: "seed", Label: "Seed (-1 or empty for random)", Kind: form.KindString, Default: "-1", SettingsKey: config.KeySeed},
	{Name: "batch_size", Label: "Batch size", Kind: form.KindInt, Min: 1, Max: 100, Default: 1, SettingsKey: config.KeyBatchSize},
	{Name: "steps", Label: "Steps", Kind: form.KindInt, Min: 10, Max: 100, Default: 50, SettingsKey: config.KeySteps},
	{Name: "mask_blur", Label: "Mask blur", Kind: form.KindInt, Min: 1, Max: 100, Default: 4, SettingsKey: config.KeyMaskBlur},
	{Name: "width", Label: "Width", Kind: form.KindInt, Min: 64, Max: 2048, Default: 512, SettingsKey: config.KeyWidth},
	{Name: "height", Label: "Height", Kind: form.KindInt, Min: 64, Max: 2048, Default: 512, SettingsKey: config.KeyHeight},
	{Name: "cfg", Label: "CFG scale", Kind: form.KindFloat, Min: 0, Max: 20, Default: 7.5, SettingsKey: config.KeyCfgScale},
	{Name: "denoising_strength", Label: "Denoising strength", Kind: form.KindFloat, Min: 0, Max: 1, Default: 0.8, SettingsKey: config.KeyDenoisingStrength},
	{Name: "samplers", Label: "Sampler", Kind: form.KindChoice, Options: render.Samplers, Default: 0, SettingsKey: config.KeySamplerName},
}

var controlNetOptionFields = []form.Field{
	{Name: "cn1_enabled", Label: "Enable ControlNet unit 1", Kind: form.KindBool, Default: false},
	{Name: "cn1_layer", Label: "ControlNet unit 1 layer", Kind: form.KindLayer, Default: 0},
	{Name: "cn2_enabled", Label: "Enable ControlNet unit 2", Kind: form.KindBool, Default: false},
	{Name: "cn2_layer", Label: "ControlNet unit 2 layer", Kind: form.KindLayer, Default: 0},
	{Name: "skip_annotator", Label: "Skip annotator layers", Kind: form.KindBool, Default: false},
}

var img2imgFields = []form.Field{
	{Name: "resize_mode", Label: "Resize mode", Kind: form.KindChoice, Options: render.ResizeModes, Default: 0},
}

var inpaintingFields = []form.Field{
	{Name: "invert_mask", Label: "Invert mask", Kind: form.KindBool, Default: false},
	{Name: "inpaint_full_res", Label: "Inpaint at full resolution", Kind: form.KindBool, Default: false},
}

var controlLayerFields = []form.Field{
	{Name: "modules", Label: "Module", Kind: form.KindChoice, Options: render.ControlNetModules, Default: 2},
	{Name: "cn_models", Label: "Model", Kind: form.KindChoice, OptionsKey: config.KeyCNModels, Default: 0},
	{Name: "weight", Label: "Weight", Kind: form.KindFloat, Min: 0, Max: 2, Default: 1.0},
	{Name: "resize_mode", Label: "Resize mode", Kind: form.KindChoice, Options: render.ControlNetResizeModes, Default: 1},
	{Name: "low_vram", Label: "Low VRAM", Kind: form.KindBool, Default: false},
	{Name: "control_mode", Label: "Control mode", Kind: form.KindChoice, Options: render.ControlModes, Default: 1},
	{Name: "guidance_start", Label: "Guidance start", Kind: form.KindFloat, Min: 0, Max: 1, Default: 0.0},
	{Name: "guidance_end", Label: "Guidance end", Kind: form.KindFloat, Min: 0, Max: 1, Default: 1.0},
	{Name: "guidance", Label: "Guidance", Kind: form.KindFloat, Min: 0, Max: 1, Default: 1.0},
	{Name: "processor_res", Label: "Processor resolution", Kind: form.KindInt, Min: 64, Max: 2048, Default: 64},
	{Name: "threshold_a", Label: "Threshold A", Kind: form.KindInt, Min: 32, Max: 2048, Default: 64},
	{Name: "threshold_b", Label: "Threshold B", Kind: form.KindInt, Min: 32, Max: 2048, Default: 64},
}

var globalFields = []form.Field{
	{Name: "prompt", Label: "Prompt", Kind: form.KindString, SettingsKey: config.KeyPrompt},
	{Name: "negative_prompt", Label: "Negative prompt", Kind: form.KindString, SettingsKey: config.KeyNegativePrompt},
	{Name: "api_base", Label: "Server URL", Kind: form.KindString, SettingsKey: config.KeyAPIBase},
}

var changeModelFields = []form.Field{
	{Name: "sd_model_checkpoint", Label: "Checkpoint", Kind: form.KindChoice, OptionsKey: config.KeyModels, Default: 0, SettingsKey: config.KeySDModelCheckpoint},
}

var layerInfoFields = []form.Field{
	{Name: "layer", Label: "Layer", Kind: form.KindLayer, Default: 0},
}

func concat(groups ...[]form.Field) []form.Field {
	var out []form.Field
	for _, g := range groups {
		out = append(out, g...)
	}

	return out
}

// FieldTable lists the dialog fields of every command that shows a dialog.
var FieldTable = map[string][]form.Field{
	GlobalName:                 globalFields,
	ChangeModelName:            changeModelFields,
	ControlNetLayerName:        controlLayerFields,
	ControlNetLayerContextName: controlLayerFields,
	Img2ImgName:                concat(generationFields, img2imgFields, controlNetOptionFields),
	Img2ImgContextName:         concat(generationFields, img2imgFields, controlNetOptionFields),
	InpaintingName:             concat(generationFields, img2imgFields, inpaintingFields, controlNetOptionFields),
	InpaintingContextName:      concat(generationFields, img2imgFields, inpaintingFields, controlNetOptionFields),
	LayerInfoName:              layerInfoFields,
	Text2ImgName:               concat(generationFields, controlNetOptionFields),
	Text2ImgContextName:        concat(generationFields, controlNetOptionFields),
}
