package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/sdapi"
)

// Run sends one generation request built from values and turns the response
// into layers. Everything local is checked before the server is contacted.
func Run(cmdctx *command.CommandContext, mode Mode, values form.Values) (*Result, error) {
	s := cmdctx.Session
	defer s.Cleanup()

	stored, err := s.Settings.Settings()
	if err != nil {
		return nil, err
	}

	data, err := BuildRequest(mode, stored, values)
	if err != nil {
		return nil, err
	}

	var source layers.Layer
	if mode != ModeText2Img {
		source, err = cmdctx.TargetLayer()
		if err != nil {
			return nil, err
		}

		initImage, err := LayerBase64(s, source.ID)
		if err != nil {
			return nil, err
		}
		WithInitImage(data, initImage)

		if mode == ModeInpainting {
			mask, err := InpaintMask(s, source)
			if err != nil {
				return nil, err
			}
			WithMask(data, mask)
		}
	}

	units, err := controlUnits(cmdctx, values)
	if err != nil {
		return nil, err
	}
	WithControlUnits(data, units)

	geometry, err := GeometryFor(s.Store, mode, source)
	if err != nil {
		return nil, err
	}

	online, err := s.PollServer(cmdctx.Context)
	if err != nil {
		return nil, err
	}

	if !online {
		return nil, sdapi.ErrServerOffline
	}

	cmdctx.Progress(GenerationMessage())
	s.Logger.Info("Sending generation request",
		zap.Stringer("mode", mode),
		zap.Int("width", data.Width),
		zap.Int("height", data.Height),
		zap.Int("batch_size", data.BatchSize),
		zap.Int("control_units", len(units)),
	)

	var res *sdapi.GenerationResponse
	if mode == ModeText2Img {
		res, err = s.API.Txt2Img(cmdctx.Context, data)
	} else {
		res, err = s.API.Img2Img(cmdctx.Context, data)
	}
	if err != nil {
		return nil, err
	}

	result, err := Materialize(s.Store, res, values.Bool("skip_annotator"))
	if err != nil {
		return nil, err
	}

	if err := ApplyGeometry(s.Store, result.All(), geometry); err != nil {
		return result, err
	}

	return result, rememberValues(s.Settings, data)
}

// controlUnits builds the enabled control units, in slot order.
func controlUnits(cmdctx *command.CommandContext, values form.Values) ([]sdapi.ControlUnit, error) {
	var units []sdapi.ControlUnit
	for _, slot := range []string{"cn1", "cn2"} {
		if !values.Bool(slot + "_enabled") {
			continue
		}

		layer, err := cmdctx.Session.Store.LayerAt(values.Int(slot + "_layer"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", slot, err)
		}

		unit, err := ControlUnit(cmdctx.Session, layer.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", slot, err)
		}

		units = append(units, unit)
	}

	return units, nil
}

// rememberValues stores the confirmed values as the next defaults.
func rememberValues(settings *config.Store, data *sdapi.GenerationRequest) error {
	partial := map[string]any{
		config.KeyBatchSize:         data.BatchSize,
		config.KeyCfgScale:          data.CfgScale,
		config.KeyDenoisingStrength: data.DenoisingStrength,
		config.KeyHeight:            data.Height,
		config.KeySamplerName:       data.SamplerIndex,
		config.KeySeed:              data.Seed,
		config.KeySteps:             data.Steps,
		config.KeyWidth:             data.Width,
	}
	if data.MaskBlur != nil {
		partial[config.KeyMaskBlur] = *data.MaskBlur
	}

	return settings.Save(partial)
}
