package commands

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
	"github.com/ayunami2000/sdlayers/form"
)

var ErrNoContextLayer = errors.New("no layer given for context command")

func title(name, layer string) string {
	short := strings.TrimPrefix(name, PluginName+"-")
	if layer == "" {
		return short
	}

	return short + " with layer " + layer
}

// imageVariant drops any context layer so the active layer is used.
func imageVariant(run func(*command.CommandContext) error) func(*command.CommandContext) error {
	return func(cmdctx *command.CommandContext) error {
		cmdctx.LayerID = ""
		return run(cmdctx)
	}
}

// contextVariant requires the host to name the layer the command was invoked on.
func contextVariant(run func(*command.CommandContext) error) func(*command.CommandContext) error {
	return func(cmdctx *command.CommandContext) error {
		if cmdctx.LayerID == "" {
			return ErrNoContextLayer
		}

		return run(cmdctx)
	}
}

func generate(mode render.Mode, fields []form.Field) func(*command.CommandContext) error {
	return func(cmdctx *command.CommandContext) error {
		layer := ""
		if mode != render.ModeText2Img {
			target, err := cmdctx.TargetLayer()
			if err != nil {
				return err
			}
			layer = target.Name
		}

		return cmdctx.RunDialog(title(mode.String(), layer), fields, func(values form.Values) error {
			result, err := render.Run(cmdctx, mode, values)
			if err != nil {
				return err
			}

			cmdctx.Session.Logger.Info("Generated layers",
				zap.Stringer("mode", mode),
				zap.Int("generated", len(result.Generated)),
				zap.Int("annotators", len(result.Annotators)),
			)
			cmdctx.Progress("Done")
			return nil
		})
	}
}
