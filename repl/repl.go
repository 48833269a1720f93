// Package repl implements the interactive shell: read a line, parse it,
// lower it, run it on a fresh VM, print the result. Grounded on the
// teacher's compiled REPL command (readline-backed prompt, brace-balance
// multi-line continuation, bytecode disassembly on request), trimmed to
// the two commands this language's shell actually defines.
package repl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"graviton/compiler"
	"graviton/lexer"
	"graviton/parser"
	"graviton/vm"
)

const banner = `
   _____ _____     ___     _______ _______ ____  _   _
  / ____|  __ \   /   \   \ \ / \ \ / /_   _/ __ \| \ | |
 | |  __| |__) | / /^\ \   \ V   V /  | || |  | |  \| |
 | | |_ |  _  / / /___\ \   >   <   | || |  | | . \' | |
 | |__| | | \ \/ /     \ \ / . . \ _| || |__| | |\  |
  \_____|_|  \_\_/       \_/_/ \_|_____\____/|_| \_|
`

type Shell struct {
	out        io.Writer
	debugLevel int
}

func New(out io.Writer) *Shell {
	return &Shell{out: out}
}

// Run drives the read-eval-print loop until the user exits or the
// terminal is closed. Each accepted line is parsed, lowered, and run on
// a brand new VM: the pipeline contract is stateless across lines.
func (s *Shell) Run() (runErr error) {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(shellExit); ok {
				runErr = nil
				return
			}
			panic(r)
		}
	}()

	color.New(color.FgCyan).Fprintln(s.out, banner)
	fmt.Fprintln(s.out, "Type :exit to quit, :debug N to set the debug level (0-2).")

	var buffer strings.Builder
	for {
		prompt := "> "
		if buffer.Len() > 0 {
			prompt = "... "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if buffer.Len() == 0 {
				continue
			}
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if buffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			s.handleCommand(strings.TrimSpace(line))
			continue
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		if !lexer.LooksBalanced(buffer.String()) {
			continue
		}

		s.evaluate(buffer.String())
		buffer.Reset()
	}
}

func (s *Shell) handleCommand(line string) {
	fields := strings.Fields(line)
	name := strings.TrimPrefix(fields[0], ":")

	switch name {
	case "exit":
		panic(shellExit{})
	case "debug":
		if len(fields) < 2 {
			fmt.Fprintln(s.out, "Invalid command debug")
			return
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 || n > 2 {
			fmt.Fprintln(s.out, "Invalid command debug")
			return
		}
		s.debugLevel = n
	default:
		fmt.Fprintf(s.out, "Invalid command %s\n", name)
	}
}

// shellExit unwinds Run via panic/recover so that :exit can terminate
// from inside handleCommand without threading a sentinel error back
// through every call site.
type shellExit struct{}

func (s *Shell) evaluate(source string) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(shellExit); ok {
				panic(r)
			}
		}
	}()

	stream, err := lexer.ScanToStream(source)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		return
	}

	root, err := parser.Parse(stream)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		return
	}

	if s.debugLevel >= 2 {
		fmt.Fprintf(s.out, "AST: %+v\n", root)
	}

	bc, err := compiler.Lower(root)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		return
	}

	if s.debugLevel >= 1 {
		fmt.Fprint(s.out, compiler.Disassemble(bc))
	}

	result, err := vm.New().Run(bc)
	if err != nil {
		fmt.Fprintln(s.out, err.Error())
		return
	}
	fmt.Fprintf(s.out, "Result: %s\n", result)
}
