package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/utils"
)

const (
	MinSize = 64
	MaxSize = 2048
)

var SizeCommand = command.NewCommand("size", []string{"sz"}, "Show or set the default width and height", sizeRun)
var ErrInvalidSize = errors.New("invalid size")

func parseSize(sz string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(sz))
	if err != nil {
		return 0, err
	}

	if i < MinSize || i > MaxSize {
		return 0, ErrInvalidSize
	}

	return utils.RoundToMultiple(i, 8), nil
}

// parseSizes accepts "512", "512x768" or "512 768".
func parseSizes(sz string) (int, int, error) {
	pieces := strings.SplitN(strings.ReplaceAll(strings.ToLower(sz), "x", " "), " ", 2)
	if len(pieces) == 1 {
		i, err := parseSize(pieces[0])
		return i, i, err
	}

	width, err := parseSize(pieces[0])
	if err != nil {
		return width, 0, err
	}

	height, err := parseSize(pieces[1])
	return width, height, err
}

func sizeRun(cmdctx *command.CommandContext) error {
	settings := cmdctx.Session.Settings
	if cmdctx.Args == "" {
		cmdctx.TryReply("Current size: %sx%s", settings.GetString(config.KeyWidth), settings.GetString(config.KeyHeight))
		return nil
	}

	width, height, err := parseSizes(cmdctx.Args)
	if err != nil {
		return err
	}

	if err := settings.Save(map[string]any{config.KeyWidth: width, config.KeyHeight: height}); err != nil {
		return err
	}

	cmdctx.TryReply("Size set to: %dx%d", width, height)
	return nil
}
