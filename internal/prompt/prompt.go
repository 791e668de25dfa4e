// Package prompt reads validated answers from an interactive terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"TotoSentinel/internal/store"
)

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// DrawID keeps asking until the answer names a draw present in s.
// It returns io.EOF when input runs out.
func (p *Prompter) DrawID(s *store.Store) (int, error) {
	for {
		n, ok, err := p.number("Enter the draw number to analyze: ")
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if s.Contains(n) {
			return n, nil
		}
		fmt.Fprintln(p.out, "Draw number not found in data. Please enter a valid draw number.")
	}
}

// Lookback keeps asking until the answer is within [lo, hi].
func (p *Prompter) Lookback(lo, hi int) (int, error) {
	q := fmt.Sprintf("Enter the number of previous draws to analyze (%d-%d): ", lo, hi)
	for {
		n, ok, err := p.number(q)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if n >= lo && n <= hi {
			return n, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between %d and %d.\n", lo, hi)
	}
}

// number reads one integer answer. ok is false after reporting a non-numeric
// answer; range checks are left to the caller.
func (p *Prompter) number(question string) (n int, ok bool, err error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if scanErr := p.in.Err(); scanErr != nil {
			return 0, false, scanErr
		}
		return 0, false, io.EOF
	}
	n, err = strconv.Atoi(strings.TrimSpace(p.in.Text()))
	if err != nil {
		fmt.Fprintln(p.out, "Please enter a valid number.")
		return 0, false, nil
	}
	return n, true, nil
}
