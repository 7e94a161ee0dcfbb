package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/ayunami2000/sdlayers/commands/command"
	"github.com/ayunami2000/sdlayers/form"
)

// FlagDialog answers dialogs from command line flags. With --repeat N the
// first N-1 answers are Apply and the last one is OK.
type FlagDialog struct {
	Args   []string
	Output io.Writer

	calls int
}

func (d *FlagDialog) Run(title string, fields []form.Field, defaults form.Values, lookup form.Lookup) (command.Response, form.Values, error) {
	fs := pflag.NewFlagSet(title, pflag.ContinueOnError)
	if d.Output != nil {
		fs.SetOutput(d.Output)
	}

	form.Bind(fs, fields, defaults, lookup)
	repeat := fs.Int("repeat", 1, "submit the dialog this many times")

	if err := fs.Parse(d.Args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return command.ResponseCancel, nil, nil
		}
		return command.ResponseCancel, nil, err
	}

	if *repeat < 1 {
		return command.ResponseCancel, nil, fmt.Errorf("--repeat must be at least 1, got %d", *repeat)
	}

	d.calls++
	switch {
	case d.calls < *repeat:
		return command.ResponseApply, form.Collect(fs, fields), nil
	case d.calls == *repeat:
		return command.ResponseOK, form.Collect(fs, fields), nil
	default:
		return command.ResponseCancel, nil, nil
	}
}
