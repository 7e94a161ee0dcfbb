package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/utils"
)

var ControlNetLayerCommand = command.NewCommand(ControlNetLayerName, []string{"controlnet"}, "Turn the active layer into a ControlNet layer or edit its options",
	imageVariant(controlNetLayerRun(FieldTable[ControlNetLayerName])))

var ControlNetLayerContextCommand = command.NewCommand(ControlNetLayerContextName, nil, "Turn this layer into a ControlNet layer or edit its options",
	contextVariant(controlNetLayerRun(FieldTable[ControlNetLayerContextName])))

func controlNetLayerRun(fields []form.Field) func(*command.CommandContext) error {
	return func(cmdctx *command.CommandContext) error {
		layer, err := cmdctx.TargetLayer()
		if err != nil {
			return err
		}

		if err := refreshOptions(cmdctx); err != nil {
			return err
		}

		return cmdctx.RunDialog(title(ControlNetLayerName, layer.Name), fields, func(values form.Values) error {
			return SaveControlLayer(cmdctx, layer, values)
		})
	}
}

// SaveControlLayer stores the control options on layer and renames it.
func SaveControlLayer(cmdctx *command.CommandContext, layer layers.Layer, values form.Values) error {
	s := cmdctx.Session
	settings := render.ControlSettings{
		Module:        utils.At(render.ControlNetModules, values.Int("modules"), "none"),
		Model:         utils.At(s.Settings.GetStringSlice(config.KeyCNModels), values.Int("cn_models"), "None"),
		Weight:        values.Float("weight"),
		ResizeMode:    utils.At(render.ControlNetResizeModes, values.Int("resize_mode"), render.ControlNetResizeModes[1]),
		LowVRAM:       values.Bool("low_vram"),
		ControlMode:   values.Int("control_mode"),
		GuidanceStart: values.Float("guidance_start"),
		GuidanceEnd:   values.Float("guidance_end"),
		Guidance:      values.Float("guidance"),
		ProcessorRes:  values.Float("processor_res"),
		ThresholdA:    values.Float("threshold_a"),
		ThresholdB:    values.Float("threshold_b"),
	}

	if err := render.SaveMetadata(s.Store, layer.ID, &settings); err != nil {
		return err
	}

	name := fmt.Sprintf("ControlNet%d", s.NextID())
	if err := s.Store.RenameLayer(layer.ID, name); err != nil {
		return err
	}

	s.Logger.Info("Saved control layer", zap.String("layer", name), zap.String("module", settings.Module), zap.String("model", settings.Model))
	return nil
}

// refreshOptions updates cached model lists when the server is reachable.
func refreshOptions(cmdctx *command.CommandContext) error {
	online, err := cmdctx.Session.PollServer(cmdctx.Context)
	if err != nil {
		return err
	}

	if !online {
		cmdctx.Progress("Server is offline, using cached model lists")
		return nil
	}

	if err := cmdctx.Session.FetchOptions(cmdctx.Context); err != nil {
		cmdctx.Progress("Unable to refresh model lists")
	}

	return nil
}
