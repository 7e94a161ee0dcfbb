package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
)

var InpaintingCommand = command.NewCommand(InpaintingName, []string{"inpaint"}, "Repaint the selection or layer mask of the active layer",
	imageVariant(generate(render.ModeInpainting, FieldTable[InpaintingName])))

var InpaintingContextCommand = command.NewCommand(InpaintingContextName, nil, "Repaint the selection or layer mask of this layer",
	contextVariant(generate(render.ModeInpainting, FieldTable[InpaintingContextName])))
