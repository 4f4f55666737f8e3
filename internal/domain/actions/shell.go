package actions

import (
	"errors"
	"strings"
)

// ErrUnsafeArgument rejects a value the shell could not receive as one literal argument.
var ErrUnsafeArgument = errors.New("argument cannot be passed to the shell safely")

// shellDialect decides how a command line is quoted for the configured shell.
type shellDialect int

const (
	dialectCmd shellDialect = iota
	dialectPOSIX
)

func dialectFor(shell []string) shellDialect {
	if len(shell) == 0 {
		return dialectPOSIX
	}
	prog := shell[0]
	if i := strings.LastIndexAny(prog, `\/`); i >= 0 {
		prog = prog[i+1:]
	}
	switch strings.ToLower(prog) {
	case "cmd", "cmd.exe":
		return dialectCmd
	}
	return dialectPOSIX
}

// quote renders arg as a single literal word.
//
// cmd.exe has no escape inside double quotes, so a quote or line break cannot be
// represented and is rejected. Characters such as & | < > ^ are literal inside
// the quotes.
func (d shellDialect) quote(arg string) (string, error) {
	if d == dialectCmd {
		if strings.ContainsAny(arg, "\"\r\n\x00") {
			return "", ErrUnsafeArgument
		}
		return `"` + arg + `"`, nil
	}
	if strings.ContainsRune(arg, 0) {
		return "", ErrUnsafeArgument
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'", nil
}

// startLine builds the fallback launch of program with args. cmd gets an empty
// window title so start never mistakes the quoted program for one.
func (d shellDialect) startLine(program string, args ...string) (string, error) {
	words := make([]string, 0, len(args)+3)
	if d == dialectCmd {
		words = append(words, "start", `""`)
	}
	for _, w := range append([]string{program}, args...) {
		q, err := d.quote(w)
		if err != nil {
			return "", err
		}
		words = append(words, q)
	}
	return strings.Join(words, " "), nil
}

// commandLine prepares line to follow the shell's leading arguments. cmd /C
// removes the first and last quote of a line that contains more than two, so
// the line is wrapped once more to survive that.
func (d shellDialect) commandLine(line string) string {
	if d == dialectCmd {
		return `"` + line + `"`
	}
	return line
}

// shellCmdLine is the full Windows command line for shell followed by line,
// which is appended without further escaping.
func shellCmdLine(shell []string, line string) string {
	words := make([]string, 0, len(shell)+1)
	for _, w := range shell {
		if w == "" || strings.ContainsAny(w, " \t") {
			w = `"` + w + `"`
		}
		words = append(words, w)
	}
	return strings.Join(append(words, line), " ")
}
