// Package repl provides the interactive mode for strand-cli.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs one tokenized command and returns its rendered reply.
type Executor func(args []string) (string, error)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	execute   Executor
	completer *Completer
	history   *History
}

// New creates a new REPL instance that runs commands through exec.
func New(exec Executor) *REPL {
	return &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    "strand> ",
		execute:   exec,
		completer: NewCompleter(),
		history:   NewHistory(),
	}
}

// SetIO overrides the input and output streams, used by tests.
func (r *REPL) SetIO(in io.Reader, out io.Writer) {
	r.input = in
	r.output = out
}

// Run starts the REPL loop. It returns when the input ends or the user
// types exit or quit.
func (r *REPL) Run() error {
	_ = r.history.Load()
	defer func() { _ = r.history.Save() }()

	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp()
			continue
		}

		args, err := Tokenize(line)
		if err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
			continue
		}

		out, err := r.execute(args)
		if err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
			continue
		}
		fmt.Fprintln(r.output, out)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Commands:")
	for _, cmd := range r.completer.commands {
		fmt.Fprintln(r.output, "  "+cmd)
	}
}

// Tokenize splits a command line into arguments. Double and single quotes
// group words; inside double quotes, \" \\ \r \n and \t escapes apply.
func Tokenize(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inWord := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == ' ' || ch == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}

		case ch == '\'':
			inWord = true
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, errors.New("unterminated single quote")
			}
			cur.WriteString(line[i+1 : i+1+end])
			i += end + 1

		case ch == '"':
			inWord = true
			i++
			for ; i < len(line); i++ {
				if line[i] == '"' {
					break
				}
				if line[i] == '\\' && i+1 < len(line) {
					i++
					switch line[i] {
					case 'r':
						cur.WriteByte('\r')
					case 'n':
						cur.WriteByte('\n')
					case 't':
						cur.WriteByte('\t')
					default:
						cur.WriteByte(line[i])
					}
					continue
				}
				cur.WriteByte(line[i])
			}
			if i == len(line) {
				return nil, errors.New("unterminated double quote")
			}

		default:
			inWord = true
			cur.WriteByte(ch)
		}
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
