// Command preview renders an AI tool result in the terminal the way the web
// panel shows it, and optionally copies the displayed text to the clipboard.
//
//	preview [-tool summarize] [-copy] [-placeholder text] [file]
//
// The raw result is read from file, or from stdin when no file is given.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"docassist/internal/clipboard"
	"docassist/internal/domain"
	"docassist/internal/normalize"
	"docassist/internal/port"
	"docassist/internal/present"
	"docassist/internal/termview"
)

const defaultWidth = 80

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "preview:", err)
		os.Exit(1)
	}
}

// toastNotifier prints notifications as they arrive.
type toastNotifier struct {
	out io.Writer
	tv  *termview.Renderer
}

func (n toastNotifier) Notify(msg port.Notification) {
	fmt.Fprintln(n.out, n.tv.Toast(msg))
}

func run(args []string, stdin *os.File, stdout *os.File) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	toolFlag := fs.String("tool", "unknown", "tool that produced the result: summarize, cross_doc_link, translate_localize")
	copyFlag := fs.Bool("copy", false, "copy the displayed text to the system clipboard")
	placeholder := fs.String("placeholder", "", "text shown when the result is empty")
	width := fs.Int("width", 0, "render width (default: terminal width)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := readInput(fs.Args(), stdin)
	if err != nil {
		return err
	}

	tool := domain.ParseToolIdentifier(*toolFlag)
	model := normalize.Normalize(raw)
	view := present.Present(model, tool, *placeholder)

	tv := termview.New(lipgloss.NewRenderer(stdout))
	fmt.Fprintln(stdout, tv.Render(view, renderWidth(*width, stdout)))

	if !*copyFlag {
		return nil
	}
	if !view.Controls.Copy {
		return errors.New("nothing to copy")
	}

	var sink port.Clipboard
	if sys, err := clipboard.NewSystem(); err == nil {
		sink = sys
	}
	// present.Copy reports a missing clipboard through the toast.
	if !present.Copy(normalize.Text(model), sink, toastNotifier{out: stdout, tv: tv}) {
		return errors.New("copy failed")
	}
	return nil
}

func readInput(args []string, stdin *os.File) (string, error) {
	switch len(args) {
	case 0:
		if term.IsTerminal(int(stdin.Fd())) {
			return "", errors.New("no input: pass a file or pipe a result on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", errors.New("expected at most one file argument")
	}
}

func renderWidth(flagWidth int, out *os.File) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if term.IsTerminal(int(out.Fd())) {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}
