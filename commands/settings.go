package commands

import (
	"fmt"
	"strings"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/utils"
)

var SettingsCommand = command.NewCommand("settings", []string{"set"}, "Show the stored settings", settingsCommandRun)

func settingsCommandRun(cmdctx *command.CommandContext) error {
	all := cmdctx.Session.Settings.All()

	var b strings.Builder
	for _, key := range utils.ToKeys(all) {
		fmt.Fprintf(&b, "\n  %-20s %v", key, all[key])
	}

	cmdctx.TryReply("Settings (%s):%s", cmdctx.Session.Settings.Path(), b.String())
	return nil
}
