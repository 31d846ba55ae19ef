package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/csvdesk/csvdesk/internal/progress"
)

// errNotInteractive is returned when a prompt is needed but stdin is not a terminal.
var errNotInteractive = errors.New("confirmation required but stdin is not a terminal (use --yes)")

// promptYesNo asks a y/N question. Anything other than y/yes is no.
func promptYesNo(reader *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return false, err
	}

	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes", nil
}

// promptString asks for a value, returning def on empty input.
func promptString(reader *bufio.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

// stdinConfirmer answers listing confirmations from the terminal.
// One reader serves every prompt so input typed ahead is not lost.
type stdinConfirmer struct {
	mu          sync.Mutex // held while a prompt reads from in
	in          *bufio.Reader
	out         io.Writer
	assumeYes   bool
	interactive bool
}

func newStdinConfirmer(assumeYes bool) *stdinConfirmer {
	return &stdinConfirmer{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stderr,
		assumeYes:   assumeYes,
		interactive: progress.IsTerminal(os.Stdin),
	}
}

// Confirm implements listing.Confirmer. The prompt runs on its own goroutine;
// a cancelled context answers no.
func (c *stdinConfirmer) Confirm(ctx context.Context, prompt string) <-chan bool {
	reply := make(chan bool, 1)
	if c.assumeYes {
		reply <- true
		return reply
	}
	if !c.interactive {
		fmt.Fprintln(c.out, errNotInteractive)
		reply <- false
		return reply
	}

	answer := make(chan bool, 1)
	go func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		ok, err := promptYesNo(c.in, c.out, prompt)
		answer <- ok && err == nil
	}()

	go func() {
		select {
		case ok := <-answer:
			reply <- ok
		case <-ctx.Done():
			reply <- false
		}
	}()
	return reply
}
