package commands

import (
	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/form"
	"github.com/ayunami2000/sdlayers/sdapi"
)

var ChangeModelCommand = command.NewCommand(ChangeModelName, []string{"model"}, "Switch the server checkpoint", changeModelRun)

func changeModelRun(cmdctx *command.CommandContext) error {
	online, err := cmdctx.Session.PollServer(cmdctx.Context)
	if err != nil {
		return err
	}

	if !online {
		return sdapi.ErrServerOffline
	}

	if err := cmdctx.Session.FetchOptions(cmdctx.Context); err != nil {
		return err
	}

	return cmdctx.RunDialog(title(ChangeModelName, ""), FieldTable[ChangeModelName], func(values form.Values) error {
		cmdctx.Progress("Changing model...")
		if err := cmdctx.Session.ChangeModel(cmdctx.Context, values.Int("sd_model_checkpoint")); err != nil {
			return err
		}

		cmdctx.TryReply("Model set to: %s", cmdctx.Session.Settings.GetString(config.KeySDModelCheckpoint))
		return nil
	})
}
