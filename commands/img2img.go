package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
)

var Img2ImgCommand = command.NewCommand(Img2ImgName, []string{"img2img"}, "Generate new layers from the active layer",
	imageVariant(generate(render.ModeImg2Img, FieldTable[Img2ImgName])))

var Img2ImgContextCommand = command.NewCommand(Img2ImgContextName, nil, "Generate new layers from this layer",
	contextVariant(generate(render.ModeImg2Img, FieldTable[Img2ImgContextName])))
