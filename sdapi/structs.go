package sdapi

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

type OptionsResponse struct {
	SDModelCheckpoint string `json:"sd_model_checkpoint"`
}

type OptionsRequest struct {
	SDModelCheckpoint string `json:"sd_model_checkpoint"`
}

type SDModel struct {
	Title     string `json:"title"`
	ModelName string `json:"model_name"`
	Hash      string `json:"hash,omitempty"`
	Sha256    string `json:"sha256,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

type ControlNetModelList struct {
	ModelList []string `json:"model_list"`
}

// ControlUnit is one entry of alwayson_scripts.controlnet.args. It is also
// the shape stored as metadata on control layers, minus the images.
type ControlUnit struct {
	InputImage    string  `json:"input_image"`
	Mask          string  `json:"mask"`
	Module        string  `json:"module"`
	Model         string  `json:"model"`
	Weight        float64 `json:"weight"`
	ResizeMode    string  `json:"resize_mode"`
	LowVRAM       bool    `json:"lowvram"`
	ProcessorRes  float64 `json:"processor_res"`
	ThresholdA    float64 `json:"threshold_a"`
	ThresholdB    float64 `json:"threshold_b"`
	Guidance      float64 `json:"guidance"`
	GuidanceStart float64 `json:"guidance_start"`
	GuidanceEnd   float64 `json:"guidance_end"`
	ControlMode   int     `json:"control_mode"`
}

type ScriptArgs struct {
	Args []ControlUnit `json:"args"`
}

// GenerationRequest covers txt2img, img2img and inpainting. Pointer fields
// are mode specific and left out when nil.
type GenerationRequest struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	CfgScale          float64 `json:"cfg_scale"`
	DenoisingStrength float64 `json:"denoising_strength"`
	Steps             int     `json:"steps"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	SamplerIndex      string  `json:"sampler_index"`
	BatchSize         int     `json:"batch_size"`
	Seed              int64   `json:"seed"`

	MaskBlur              *int     `json:"mask_blur,omitempty"`
	ResizeMode            *int     `json:"resize_mode,omitempty"`
	InitImages            []string `json:"init_images,omitempty"`
	Mask                  *string  `json:"mask,omitempty"`
	InpaintFullRes        *bool    `json:"inpaint_full_res,omitempty"`
	InpaintFullResPadding *int     `json:"inpaint_full_res_padding,omitempty"`
	InpaintingMaskInvert  *int     `json:"inpainting_mask_invert,omitempty"`

	AlwaysonScripts map[string]ScriptArgs `json:"alwayson_scripts,omitempty"`
}

type GenerationResponse struct {
	Images     []string       `json:"images"`
	Parameters map[string]any `json:"parameters"`
	Info       string         `json:"info"`
}

// GenerationInfo is the JSON document carried inside GenerationResponse.Info.
type GenerationInfo struct {
	Infotexts []string `json:"infotexts"`
	AllSeeds  []int64  `json:"all_seeds"`
}

func (r *GenerationResponse) DecodeInfo() (*GenerationInfo, error) {
	var info GenerationInfo
	if strings.TrimSpace(r.Info) == "" {
		return &info, nil
	}

	if err := json.Unmarshal([]byte(r.Info), &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// DecodeImage accepts plain base64 as well as data urls.
func DecodeImage(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		}
	}

	return base64.StdEncoding.DecodeString(s)
}
