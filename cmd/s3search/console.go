package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// styles holds color formatters for console search output.
type styles struct {
	status   *color.Color
	progress *color.Color
	result   *color.Color
}

// newStyles creates color formatters. enabled=false disables coloring, used
// when stdout is not a terminal.
func newStyles(enabled bool) *styles {
	s := &styles{
		status:   color.New(color.FgHiBlue),
		progress: color.New(color.Faint),
		result:   color.New(color.Bold, color.FgHiGreen),
	}
	if !enabled {
		s.status.DisableColor()
		s.progress.DisableColor()
		s.result.DisableColor()
	}
	return s
}

// consoleObserver renders run updates as console lines. In quiet mode only
// match results are printed.
type consoleObserver struct {
	mu     sync.Mutex
	out    io.Writer
	styles *styles
	quiet  bool

	lastProgress int
}

func newConsoleObserver(out io.Writer, colored, quiet bool) *consoleObserver {
	return &consoleObserver{
		out:          out,
		styles:       newStyles(colored),
		quiet:        quiet,
		lastProgress: -1,
	}
}

func (c *consoleObserver) OnStatus(text string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.styles.status.Sprint(text))
}

func (c *consoleObserver) OnProgress(percent int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if percent == c.lastProgress {
		return
	}
	c.lastProgress = percent
	fmt.Fprintln(c.out, c.styles.progress.Sprintf("[%3d%%]", percent))
}

func (c *consoleObserver) OnResult(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.styles.result.Sprint(strings.TrimRight(text, "\n")))
}
