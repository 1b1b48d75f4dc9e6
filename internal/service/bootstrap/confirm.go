package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// StaticConfirmer always gives the same answer. Used for --yes and in tests.
type StaticConfirmer bool

// Confirm returns the fixed answer.
func (s StaticConfirmer) Confirm(context.Context, string) (bool, error) {
	return bool(s), nil
}

// PromptConfirmer asks the operator. On a terminal it shows a survey prompt,
// otherwise it reads one line and accepts "yes" or "y".
type PromptConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewPromptConfirmer creates a confirmer reading from in and writing the question to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: in, out: out}
}

// Confirm asks question and reports the answer.
func (p *PromptConfirmer) Confirm(_ context.Context, question string) (bool, error) {
	inFile, inOK := p.in.(*os.File)
	outFile, outOK := p.out.(*os.File)

	//nolint:gosec // File descriptors fit in int.
	if inOK && outOK && term.IsTerminal(int(inFile.Fd())) && term.IsTerminal(int(outFile.Fd())) {
		answer := false
		prompt := &survey.Confirm{Message: question, Default: false}

		if err := survey.AskOne(prompt, &answer, survey.WithStdio(inFile, outFile, outFile)); err != nil {
			return false, fmt.Errorf("ask for consent: %w", err)
		}

		return answer, nil
	}

	return p.readLine(question)
}

func (p *PromptConfirmer) readLine(question string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s (yes/no): ", question); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}
