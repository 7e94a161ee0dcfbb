package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
	"github.com/ayunami2000/sdlayers/form"
)

var LayerInfoCommand = command.NewCommand(LayerInfoName, []string{"info"}, "Show the data attached to a layer", layerInfoRun)

var LayerInfoContextCommand = command.NewCommand(LayerInfoContextName, nil, "Show the data attached to this layer",
	contextVariant(layerInfoContextRun))

func layerInfoRun(cmdctx *command.CommandContext) error {
	return cmdctx.RunDialog(title(LayerInfoName, ""), FieldTable[LayerInfoName], func(values form.Values) error {
		layer, err := cmdctx.Session.Store.LayerAt(values.Int("layer"))
		if err != nil {
			return err
		}

		return showLayerInfo(cmdctx, layer.ID)
	})
}

func layerInfoContextRun(cmdctx *command.CommandContext) error {
	return showLayerInfo(cmdctx, cmdctx.LayerID)
}

func showLayerInfo(cmdctx *command.CommandContext, id string) error {
	text, err := render.LayerInfo(cmdctx.Session.Store, id)
	if err != nil {
		return err
	}

	cmdctx.TryReply("%s", text)
	return nil
}
