package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/utils"
)

var PromptCommand = command.NewCommand("prompt", []string{"p"}, "Show or set the stored prompt", promptCommandRun)

func promptCommandRun(cmdctx *command.CommandContext) error {
	return storedTextRun(cmdctx, config.KeyPrompt, "prompt")
}

// storedTextRun shows key when called without arguments and sets it otherwise.
func storedTextRun(cmdctx *command.CommandContext, key, label string) error {
	if cmdctx.Args == "" {
		cmdctx.TryReply("Current %s: %s", label, utils.StringOrNone(cmdctx.Session.Settings.GetString(key)))
		return nil
	}

	text := utils.TruncateText(cmdctx.Args, 512)
	if err := cmdctx.Session.Settings.Save(map[string]any{key: text}); err != nil {
		return err
	}

	cmdctx.TryReply("%s set to: %s", label, text)
	return nil
}
