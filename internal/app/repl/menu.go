// Package repl implements the interactive translation menu: pick an input
// language, pick an output language, then translate line by line.
// An interrupt goes back one level; at the top level it exits.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/translator"
)

// Service is the translation surface the menu needs.
type Service interface {
	Translate(ctx context.Context, langIn, langOut, text string) (string, error)
	Languages(ctx context.Context) ([]translator.Pair, error)
}

type event int

const (
	eventLine event = iota
	eventInterrupt
	eventEOF
)

// Menu is a line-oriented interactive session.
type Menu struct {
	svc        Service
	in         io.Reader
	out        io.Writer
	interrupts <-chan os.Signal

	lines   chan string
	done    chan struct{} // closed when Run returns
	stopped chan struct{} // closed when the scanner goroutine exits
}

// New creates a Menu reading from in and writing to out. interrupts may be
// nil when the session cannot be interrupted.
func New(svc Service, in io.Reader, out io.Writer, interrupts <-chan os.Signal) *Menu {
	return &Menu{svc: svc, in: in, out: out, interrupts: interrupts}
}

// Run drives the menu until the input ends, ctx is done or the top level
// is interrupted.
func (m *Menu) Run(ctx context.Context) error {
	pairs, err := m.svc.Languages(ctx)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no dictionaries available: %w", domain.ErrNotFound)
	}

	m.lines = make(chan string)
	m.done = make(chan struct{})
	m.stopped = make(chan struct{})
	defer close(m.done)
	go m.scan()

	for {
		langIn, ev := m.choose(ctx, "Input language", inputs(pairs))
		if ev != eventLine {
			m.println("")
			return nil
		}

	output:
		for {
			langOut, ev := m.choose(ctx, "Output language", outputs(pairs, langIn))
			switch ev {
			case eventEOF:
				return nil
			case eventInterrupt:
				m.println("")
				break output
			}

			if ev := m.translateLoop(ctx, langIn, langOut); ev == eventEOF {
				return nil
			}
			m.println("")
		}
	}
}

// scan feeds input lines to Run. A read already in progress when Run
// returns cannot be interrupted; its line is dropped and the goroutine
// exits instead of blocking on the send.
func (m *Menu) scan() {
	defer close(m.stopped)
	defer close(m.lines)
	sc := bufio.NewScanner(m.in)
	for sc.Scan() {
		select {
		case m.lines <- sc.Text():
		case <-m.done:
			return
		}
	}
}

func (m *Menu) read(ctx context.Context) (string, event) {
	select {
	case <-ctx.Done():
		return "", eventEOF
	case <-m.interrupts:
		return "", eventInterrupt
	case line, ok := <-m.lines:
		if !ok {
			return "", eventEOF
		}
		return line, eventLine
	}
}

// choose asks for one of codes, by number or by code, until the answer is
// valid or the prompt is left.
func (m *Menu) choose(ctx context.Context, title string, codes []string) (string, event) {
	m.println(title + ":")
	for i, c := range codes {
		m.println(fmt.Sprintf("  %2d) %-4s %s", i+1, c, domain.LangName(c)))
	}
	for {
		m.print("> ")
		line, ev := m.read(ctx)
		if ev != eventLine {
			return "", ev
		}
		if code, ok := pick(codes, line); ok {
			return code, eventLine
		}
		m.println(fmt.Sprintf("unknown choice %q", strings.TrimSpace(line)))
	}
}

func (m *Menu) translateLoop(ctx context.Context, langIn, langOut string) event {
	m.println(fmt.Sprintf("Translating %s -> %s. Interrupt to pick another language.", langIn, langOut))
	for {
		m.print(langIn + "> ")
		line, ev := m.read(ctx)
		if ev != eventLine {
			return ev
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		got, err := m.svc.Translate(ctx, langIn, langOut, line)
		if err != nil {
			m.println("error: " + err.Error())
			continue
		}
		m.println(langOut + ": " + got)
	}
}

func (m *Menu) print(s string)   { _, _ = io.WriteString(m.out, s) }
func (m *Menu) println(s string) { _, _ = io.WriteString(m.out, s+"\n") }

func pick(codes []string, answer string) (string, bool) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(codes) {
			return codes[n-1], true
		}
		return "", false
	}
	if slices.Contains(codes, answer) {
		return answer, true
	}
	return "", false
}

func inputs(pairs []translator.Pair) []string {
	var codes []string
	for _, p := range pairs {
		if !slices.Contains(codes, p.From) {
			codes = append(codes, p.From)
		}
	}
	slices.Sort(codes)
	return codes
}

func outputs(pairs []translator.Pair, langIn string) []string {
	var codes []string
	for _, p := range pairs {
		if p.From == langIn {
			codes = append(codes, p.To)
		}
	}
	slices.Sort(codes)
	return codes
}
