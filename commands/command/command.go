package command

import (
	"context"
	"fmt"

	"github.com/ayunami2000/sdlayers/form"
	"github.com/ayunami2000/sdlayers/layers"
	"github.com/ayunami2000/sdlayers/session"
)

// Messenger shows text to the user. Message blocks until acknowledged on
// hosts that use modal message boxes.
type Messenger interface {
	Message(text string)
	Progress(text string)
}

type CommandContext struct {
	Context   context.Context
	Executor  *Executor
	Session   *session.Session
	Dialog    Dialog
	Messenger Messenger

	// LayerID is the layer a context menu command was invoked on. Empty
	// means the active layer.
	LayerID string

	CalledWithAlias string
	Args            string
}

func (c *CommandContext) TryReply(format string, a ...any) {
	if c.Messenger != nil {
		c.Messenger.Message(fmt.Sprintf(format, a...))
	}
}

func (c *CommandContext) Progress(text string) {
	if c.Messenger != nil {
		c.Messenger.Progress(text)
	}
}

// TargetLayer is the context layer when set, the active layer otherwise.
func (c *CommandContext) TargetLayer() (layers.Layer, error) {
	if c.LayerID != "" {
		return c.Session.Store.Layer(c.LayerID)
	}

	return c.Session.Store.ActiveLayer()
}

func (c *CommandContext) Lookup() form.Lookup {
	return c.Session.Settings.Lookup
}

type Command struct {
	Name    string
	Aliases []string
	Blurb   string
	run     func(*CommandContext) error
}

func NewCommand(name string, aliases []string, blurb string, run func(*CommandContext) error) *Command {
	return &Command{
		Name:    name,
		Aliases: aliases,
		Blurb:   blurb,
		run:     run,
	}
}

func (c *Command) Run(cmdctx *CommandContext) error {
	return c.run(cmdctx)
}

func (c *Command) String() string {
	return fmt.Sprintf("{Name: %s, Aliases: %s}", c.Name, c.Aliases)
}
