package cliutil

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// ConfirmOverwrite asks the user whether an existing file may be replaced.
// It only prompts when stdin is a terminal; otherwise it declines, keeping
// piped and scripted runs non-interactive.
func ConfirmOverwrite(path string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, nil
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("The file %q already exists. Overwrite it?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
