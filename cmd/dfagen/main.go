// Command dfagen compiles a regular expression into a DFA, exports it and
// runs inputs through it.
//
//	dfagen -e 'a(b|c)*' -alphabet abc abcb ba
//	dfagen -e '(ab)*' -dot -
//	dfagen -e 'a(b|c)*' -go matcher.go -pkg match -func Match
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dfagen"
	"dfagen/internal/lexer"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

type config struct {
	expression string
	alphabet   string
	dotFile    string
	pngFile    string
	goFile     string
	pkg        string
	fn         string
	workers    int
	stdin      bool
	legacy     bool
	verbose    bool
	inputs     []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	c := &config{}
	fs := flag.NewFlagSet("dfagen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: dfagen -e <expression> [-alphabet chars] [-dot file] [-png file] [-go file] [input ...]")
		fs.PrintDefaults()
	}

	workers, err := strconv.Atoi(envy.Get("DFAGEN_WORKERS", "0"))
	if err != nil {
		return nil, errors.Wrap(err, "DFAGEN_WORKERS")
	}

	fs.StringVar(&c.expression, "e", "", "expression (required)")
	fs.StringVar(&c.alphabet, "alphabet", envy.Get("DFAGEN_ALPHABET", ""), "alphabet; defaults to the characters of the expression")
	fs.StringVar(&c.dotFile, "dot", "", "write a Graphviz description to file, - for stdout")
	fs.StringVar(&c.pngFile, "png", "", "render a PNG to file via dot -Tpng")
	fs.StringVar(&c.goFile, "go", "", "write a Go matcher to file, - for stdout")
	fs.StringVar(&c.pkg, "pkg", "main", "package of the generated matcher")
	fs.StringVar(&c.fn, "func", "Match", "name of the generated matcher")
	fs.IntVar(&c.workers, "workers", workers, "goroutines evaluating inputs, 0 for one per input")
	fs.BoolVar(&c.stdin, "stdin", false, "also read inputs from stdin, one per line")
	fs.BoolVar(&c.legacy, "legacy-lastpos", false, "compile with the lastpos rules of the first release")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.expression == "" {
		fs.Usage()
		return nil, flag.ErrHelp
	}
	if c.alphabet == "" {
		c.alphabet = alphabetOf(c.expression)
	}
	c.inputs = fs.Args()
	return c, nil
}

func runArgs(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c, err := parseFlags(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}

	log := newLogger(stderr, c.verbose)
	if err := execute(c, log, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "dfagen: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	log.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(envy.Get("DFAGEN_LOG_LEVEL", "warn")); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithError(err).Warn("ignoring DFAGEN_LOG_LEVEL")
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func execute(c *config, log *logrus.Logger, stdin io.Reader, stdout io.Writer) error {
	opts := []dfagen.Option{dfagen.WithLogger(log)}
	if c.legacy {
		opts = append(opts, dfagen.WithLegacyLastPos())
	}
	d, err := dfagen.GenerateDFA(c.expression, c.alphabet, opts...)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"expression": c.expression, "states": d.NumStates}).Info("compiled")

	exported := false
	if c.dotFile != "" {
		exported = true
		if err := writeOutput(c.dotFile, stdout, func(w io.Writer) error {
			return d.WriteDOT(w, "DFA")
		}); err != nil {
			return errors.Wrap(err, "write DOT")
		}
	}
	if c.pngFile != "" {
		exported = true
		if err := renderPNG(d, c.pngFile); err != nil {
			return err
		}
	}
	if c.goFile != "" {
		exported = true
		if err := writeOutput(c.goFile, stdout, func(w io.Writer) error {
			return d.WriteGo(w, c.pkg, c.fn, c.expression)
		}); err != nil {
			return errors.Wrap(err, "write Go")
		}
	}

	inputs := c.inputs
	if c.stdin {
		lines, err := readLines(stdin)
		if err != nil {
			return errors.Wrap(err, "read stdin")
		}
		inputs = append(inputs, lines...)
	}
	if len(inputs) == 0 {
		if !exported {
			fmt.Fprintf(stdout, "%d states, %d accepting\n", d.NumStates, len(d.Accepting))
		}
		return nil
	}

	verdicts, err := d.EvaluateAll(context.Background(), inputs, c.workers)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(stdout)
	for i, in := range inputs {
		verdict := "reject"
		if verdicts[i] {
			verdict = "accept"
		}
		fmt.Fprintf(w, "%s\t%s\n", in, verdict)
	}
	return w.Flush()
}

// writeOutput runs write against stdout when name is "-", otherwise against
// a newly created file.
func writeOutput(name string, stdout io.Writer, write func(io.Writer) error) error {
	if name == "-" {
		return write(stdout)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderPNG(d *dfagen.DFA, name string) error {
	var buf bytes.Buffer
	if err := d.WriteDOT(&buf, "DFA"); err != nil {
		return err
	}
	cmd := exec.Command("dot", "-Tpng", "-o", name)
	cmd.Stdin = &buf
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "dot failed: %s", strings.TrimSpace(stderr.String()))
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines, s.Err()
}

// alphabetOf returns the distinct non-operator characters of expression.
func alphabetOf(expression string) string {
	var b strings.Builder
	seen := map[rune]bool{}
	for _, c := range expression {
		if _, ok := lexer.Reserved[c]; ok || seen[c] {
			continue
		}
		seen[c] = true
		b.WriteRune(c)
	}
	return b.String()
}
