package commands

import "github.com/ayunami2000/sdlayers/commands/command"

// All is every command in registration order. The first twelve are the
// host procedures.
var All = []*command.Command{
	GlobalCommand,
	ChangeModelCommand,
	ControlNetLayerCommand,
	ControlNetLayerContextCommand,
	Img2ImgCommand,
	Img2ImgContextCommand,
	InpaintingCommand,
	InpaintingContextCommand,
	LayerInfoCommand,
	LayerInfoContextCommand,
	Text2ImgCommand,
	Text2ImgContextCommand,

	PromptCommand,
	NegativePromptCommand,
	SamplerCommand,
	SizeCommand,
	ListModelsCommand,
	RandomCommand,
	SettingsCommand,
	HelpCommand,
}

func Register(e *command.Executor) {
	for _, cmd := range All {
		e.RegisterCommand(cmd)
	}
}
