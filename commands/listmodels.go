package commands

import (
	"strings"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/utils"
)

var ListModelsCommand = command.NewCommand("listmodels", []string{"lm"}, "List the checkpoints and ControlNet models", listModelsCommandRun)

func listModelsCommandRun(cmdctx *command.CommandContext) error {
	if err := refreshOptions(cmdctx); err != nil {
		return err
	}

	settings := cmdctx.Session.Settings
	cmdctx.TryReply("Models:\nStable Diffusion: %s\nControlNet: %s\nCurrent: %s",
		strings.Join(settings.GetStringSlice(config.KeyModels), ", "),
		strings.Join(settings.GetStringSlice(config.KeyCNModels), ", "),
		utils.StringOrNone(settings.GetString(config.KeySDModelCheckpoint)))

	return nil
}
