package console

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerDelay is the frame interval of the progress spinner.
const spinnerDelay = 100 * time.Millisecond

// StartSpinner shows a spinner with message on w and returns the function that stops it.
// Nothing is drawn when w is not a terminal.
func StartSpinner(w io.Writer, message string) func() {
	if !IsTerminal(w) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[11], spinnerDelay, spinner.WithWriter(w))
	_ = s.Color("cyan")
	s.Suffix = " " + message
	s.Start()

	return s.Stop
}
