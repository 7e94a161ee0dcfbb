package command

import (
	"errors"

	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/utils"
)

var ErrCommandNotFound = errors.New("command not found")

type Executor struct {
	commands []*Command
}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) GetCommandNames() (names []string) {
	for _, c := range e.commands {
		names = append(names, c.Name)
	}

	return
}

func (e *Executor) RegisterCommand(cmd *Command) {
	e.commands = append(e.commands, cmd)
}

func (e *Executor) Command(name string) (*Command, error) {
	for _, cmd := range e.commands {
		if cmd.Name == name || utils.Contains(cmd.Aliases, name) {
			return cmd, nil
		}
	}

	return nil, ErrCommandNotFound
}

// RunCommand runs name and always clears the session's staging files.
func (e *Executor) RunCommand(name string, cmdctx *CommandContext) error {
	cmd, err := e.Command(name)
	if err != nil {
		return err
	}

	cmdctx.Executor = e
	cmdctx.CalledWithAlias = name
	defer cmdctx.Session.Cleanup()

	if err := cmd.Run(cmdctx); err != nil {
		cmdctx.Session.Logger.Error("Command failed", zap.String("command", cmd.Name), zap.Error(err))
		return err
	}

	return nil
}
