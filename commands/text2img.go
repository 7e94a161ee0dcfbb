package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
)

var Text2ImgCommand = command.NewCommand(Text2ImgName, []string{"txt2img"}, "Generate new layers from the stored prompt",
	imageVariant(generate(render.ModeText2Img, FieldTable[Text2ImgName])))

var Text2ImgContextCommand = command.NewCommand(Text2ImgContextName, nil, "Generate new layers from the stored prompt",
	contextVariant(generate(render.ModeText2Img, FieldTable[Text2ImgContextName])))
