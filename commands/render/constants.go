package render

import (
	"math/rand"

	"github.com/ayunami2000/sdlayers/sdapi"
)

const MaxBatchSize = 20

// Samplers is positional: older servers take sampler_index as an index into
// this exact list.
var Samplers = []string{
	"Euler a",
	"Euler",
	"LMS",
	"Heun",
	"DPM2",
	"DPM2 a",
	"DPM++ 2S a",
	"DPM++ 2M",
	"DPM++ SDE",
	"DPM fast",
	"DPM adaptive",
	"LMS Karras",
	"DPM2 Karras",
	"DPM2 a Karras",
	"DPM++ 2S a Karras",
	"DPM++ 2M Karras",
	"DPM++ SDE Karras",
	"DDIM",
}

var ResizeModes = []string{
	"Just Resize",
	"Crop And Resize",
	"Resize And Fill",
	"Just Resize (Latent Upscale)",
}

var ControlModes = []string{
	"Balanced",
	"My prompt is more important",
	"ControlNet is more important",
}

var ControlNetResizeModes = []string{
	"Just Resize",
	"Scale to Fit (Inner Fit)",
	"Envelope (Outer Fit)",
}

var ControlNetModules = []string{
	"none",
	"canny",
	"depth",
	"depth_leres",
	"hed",
	"mlsd",
	"normal_map",
	"openpose",
	"openpose_hand",
	"clip_vision",
	"color",
	"pidinet",
	"scribble",
	"fake_scribble",
	"segmentation",
	"binary",
}

func DefaultControlUnit() sdapi.ControlUnit {
	return sdapi.ControlUnit{
		Module:        "none",
		Model:         "none",
		Weight:        1.0,
		ResizeMode:    "Scale to Fit (Inner Fit)",
		ProcessorRes:  64,
		ThresholdA:    64,
		ThresholdB:    64,
		Guidance:      1.0,
		GuidanceStart: 0.0,
		GuidanceEnd:   1.0,
		ControlMode:   0,
	}
}

var generationMessages = []string{
	"Making happy little pixels...",
	"Fetching pixels from the digital art museum...",
	"Waiting for bot-painters to finish...",
	"Waiting for the prompt to bake...",
	"Fetching random pixels from the internet",
	"Taking a random screenshot from an AI dream",
	"Throwing pixels at screen and seeing what sticks",
	"Converting random internet comment to RGB values",
	"Computer making me wait, because Internet too slow",
	"Checking in with my friend the neural network",
	"Letting the latent space settle...",
	"Denoising one step at a time...",
	"Asking the sampler nicely...",
	"Mixing the paint...",
	"Stretching the canvas...",
	"Sketching the outlines...",
	"Adding the final touches...",
}

func GenerationMessage() string {
	return generationMessages[rand.Intn(len(generationMessages))]
}
