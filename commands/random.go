package commands

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/tjarratt/babble"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/config"
	"github.com/ayunami2000/sdlayers/utils"
)

var RandomCommand = command.NewCommand("random", []string{"rand"}, "Set the stored prompt to random words", randomCommandRun)
var ErrNoWordList = errors.New("no word list available")

// babble panics when the system dictionary is missing.
var loadBabbler = sync.OnceValues(func() (b babble.Babbler, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNoWordList, r)
		}
	}()

	b = babble.NewBabbler()
	b.Separator = ", "
	return b, nil
})

func randomCommandRun(cmdctx *command.CommandContext) error {
	babbler, err := loadBabbler()
	if err != nil {
		return err
	}

	babbler.Count = 10
	if cmdctx.Args != "" {
		i, err := strconv.Atoi(cmdctx.Args)
		if err != nil {
			return err
		}
		babbler.Count = utils.Clamp(i, 1, 100)
	}

	prompt := utils.TruncateText(babbler.Babble(), 512)
	if err := cmdctx.Session.Settings.Save(map[string]any{config.KeyPrompt: prompt}); err != nil {
		return err
	}

	cmdctx.TryReply("Prompt randomly set to: %s", prompt)
	return nil
}
