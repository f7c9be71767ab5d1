// Package onboarding runs the terminal hatch ceremony: naming the specimen
// and printing the startup checklist.
package onboarding

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/moorebrett0/triops/internal/lore"
	"github.com/moorebrett0/triops/internal/triops"
)

// MaxNameLength is the longest accepted specimen name, in characters.
const MaxNameLength = 32

// Prompter talks to the person at the terminal.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	delay time.Duration // per character in slow prints; 0 prints at once
}

// New creates a prompter. delay slows down the hatch animation.
func New(in io.Reader, out io.Writer, delay time.Duration) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, delay: delay}
}

// AskName asks for the specimen's name. An empty answer, or end of input,
// keeps fallback.
func (p *Prompter) AskName(fallback string) string {
	if fallback == "" {
		fallback = triops.DefaultName
	}
	egg := lore.For(triops.Egg)

	fmt.Fprintln(p.out)
	p.printSlow(fmt.Sprintf("  %s a dormant egg settles into the sand...", egg.Emoji))
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "  what should we call the specimen? [%s]\n", fallback)

	for {
		fmt.Fprint(p.out, "  > ")
		line, err := p.in.ReadString('\n')
		name := strings.TrimSpace(line)

		switch {
		case name == "":
			name = fallback
		case utf8.RuneCountInString(name) > MaxNameLength:
			fmt.Fprintf(p.out, "  pick a name (1-%d characters)\n", MaxNameLength)
			if err != nil {
				return fallback
			}
			continue
		}

		fmt.Fprintln(p.out)
		p.printSlow(fmt.Sprintf("  %s %s. it %s.", egg.Emoji, name, egg.Verbs.Greet))
		fmt.Fprintln(p.out)
		return name
	}
}

// Check is one line of the startup checklist.
type Check struct {
	Label string
	OK    bool
}

// PrintStartup prints the startup checklist.
func (p *Prompter) PrintStartup(name string, checks []Check) {
	fmt.Fprintln(p.out, "  starting up...")
	for _, c := range checks {
		p.pause(8)
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		fmt.Fprintf(p.out, "  %s %s\n", mark, c.Label)
	}
	fmt.Fprintln(p.out)
	p.printSlow(fmt.Sprintf("  %s is in the tank. keep the water clean.", name))
	fmt.Fprintln(p.out)
}

func (p *Prompter) printSlow(text string) {
	for _, ch := range text {
		fmt.Fprint(p.out, string(ch))
		p.pause(1)
	}
	fmt.Fprintln(p.out)
}

func (p *Prompter) pause(n int) {
	if p.delay > 0 {
		time.Sleep(time.Duration(n) * p.delay)
	}
}
