package command

import (
	"github.com/ayunami2000/sdlayers/form"
)

type Response int

const (
	ResponseCancel Response = iota
	ResponseOK
	ResponseApply
)

func (r Response) String() string {
	switch r {
	case ResponseOK:
		return "ok"
	case ResponseApply:
		return "apply"
	default:
		return "cancel"
	}
}

// Dialog renders fields and waits for the user. The returned values are raw;
// RunDialog validates them.
type Dialog interface {
	Run(title string, fields []form.Field, defaults form.Values, lookup form.Lookup) (Response, form.Values, error)
}

// RunDialog shows the dialog until the user closes it. OK submits and closes,
// Apply submits and shows the dialog again, Cancel closes.
func (c *CommandContext) RunDialog(title string, fields []form.Field, submit func(form.Values) error) error {
	for {
		lookup := c.Lookup()
		response, raw, err := c.Dialog.Run(title, fields, form.Defaults(fields, lookup), lookup)
		if err != nil {
			return err
		}

		if response != ResponseOK && response != ResponseApply {
			return nil
		}

		values, err := form.Validate(fields, raw, lookup)
		if err != nil {
			return err
		}

		if err := submit(values); err != nil {
			return err
		}

		if response == ResponseOK {
			return nil
		}
	}
}
