package commands

import (
	"fmt"
	"strings"

	"github.com/ayunami2000/sdlayers/commands/command"
)

var HelpCommand = command.NewCommand("help", []string{"h", "?"}, "List commands", helpCommandRun)

func helpCommandRun(cmdctx *command.CommandContext) error {
	var b strings.Builder
	for _, name := range cmdctx.Executor.GetCommandNames() {
		cmd, err := cmdctx.Executor.Command(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "\n  %-28s %s", cmd.Name, cmd.Blurb)
	}

	cmdctx.TryReply("Usage: sdlayers <command> [flags]\nCommands:%s", b.String())
	return nil
}
