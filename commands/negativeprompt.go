package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
)

var NegativePromptCommand = command.NewCommand("negativeprompt", []string{"np"}, "Show or set the stored negative prompt", negativePromptCommandRun)

func negativePromptCommandRun(cmdctx *command.CommandContext) error {
	return storedTextRun(cmdctx, config.KeyNegativePrompt, "negative prompt")
}
