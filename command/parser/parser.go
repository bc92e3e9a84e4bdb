// Package parser implements the console command table: tokenizing a
// command line, matching it against the known commands by
// unambiguous prefix, and dispatching to the matched handler. Shaped
// after the teacher's command/parser split between the generic
// matching machinery (this file) and the command bodies
// (commands.go).
package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/dcvieira/ttyos/internal/kernel"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *kernel.Kernel) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "ps", min: 1, process: ps},
	{name: "step", min: 2, process: step},
	{name: "irq", min: 1, process: irq, complete: irqComplete},
	{name: "dump", min: 1, process: dump},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand parses and runs one command line against k. Returns
// true if the REPL should exit.
func ProcessCommand(commandLine string, k *kernel.Kernel) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return match[0].process(&line, k)
}

// CompleteCmd returns line-editing completions for commandLine.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos-1] == ' ' {
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	matches := make([]string, len(match))
	for i, m := range match {
		matches[i] = m.name
	}
	return matches
}

// matchCommand reports whether command is a prefix of match.name at
// least match.min characters long.
func matchCommand(match cmd, command string) bool {
	if len(command) < match.min || len(command) > len(match.name) {
		return false
	}
	return strings.HasPrefix(match.name, command)
}

func matchList(command string) []cmd {
	if command == "" {
		return nil
	}
	var out []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			out = append(out, m)
		}
	}
	return out
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line)
}

func (line *cmdLine) skipSpace() {
	for !line.isEOL() && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// getWord returns the next space-delimited token, lowercased.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return strings.ToLower(line.line[start:line.pos])
}

// getInt parses the next token as a decimal integer.
func (line *cmdLine) getInt() (int, error) {
	word := line.getWord()
	if word == "" {
		return 0, errors.New("expected a number")
	}
	n, err := strconv.Atoi(word)
	if err != nil {
		return 0, errors.New("not a number: " + word)
	}
	return n, nil
}
