package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
)

var GlobalCommand = command.NewCommand(GlobalName, []string{"config"}, "Edit the stored prompts and server url", globalRun)

func globalRun(cmdctx *command.CommandContext) error {
	return cmdctx.RunDialog(title(GlobalName, ""), FieldTable[GlobalName], func(values form.Values) error {
		if _, err := config.ValidateBaseURL(values.String("api_base")); err != nil {
			return err
		}

		err := cmdctx.Session.Settings.Save(map[string]any{
			config.KeyPrompt:         values.String("prompt"),
			config.KeyNegativePrompt: values.String("negative_prompt"),
			config.KeyAPIBase:        values.String("api_base"),
		})
		if err != nil {
			return err
		}

		return refreshOptions(cmdctx)
	})
}
