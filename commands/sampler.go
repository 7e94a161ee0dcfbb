package commands

import (
	"errors"
	"strings"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/commands/render"
	"github.com/ayunami2000/sdlayers/config"
)

var SamplerCommand = command.NewCommand("sampler", []string{"sm"}, "Show or set the default sampler", samplerCommandRun)
var ErrInvalidSampler = errors.New("invalid sampler")

func samplerCommandRun(cmdctx *command.CommandContext) error {
	if cmdctx.Args == "" {
		cmdctx.TryReply("Current sampler: %s\nSamplers: %s",
			cmdctx.Session.Settings.GetString(config.KeySamplerName), strings.Join(render.Samplers, ", "))
		return nil
	}

	sampler := ""
	for _, s := range render.Samplers {
		if strings.EqualFold(s, cmdctx.Args) {
			sampler = s
			break
		}
	}

	if sampler == "" {
		return ErrInvalidSampler
	}

	if err := cmdctx.Session.Settings.Save(map[string]any{config.KeySamplerName: sampler}); err != nil {
		return err
	}

	cmdctx.TryReply("Sampler set to: %s", sampler)
	return nil
}
