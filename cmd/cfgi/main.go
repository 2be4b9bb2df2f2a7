/*
Cfgi starts an interactive session for exploring a context-free grammar.

It reads in a gfmt grammar file and lets the user run analyses and parses
against it from a REPL, printing results to stdout. The interpreter reads
commands from stdin until "quit" is entered.

Usage:

	cfgi [flags] GRAMMAR_FILE

The flags are:

	-v, --version
		Give the current version of cfgi and then exit.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input, even if launched
		in a tty with stdin and stdout.

Once a session has started, type "help" for a list of available commands.
To exit the interpreter, type "quit".
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/cfgtext"
	"github.com/dekarrin/cfgkit/earley"
	"github.com/dekarrin/cfgkit/gfmt"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/internal/input"
	"github.com/dekarrin/cfgkit/internal/version"
	"github.com/dekarrin/cfgkit/ll1"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/transform"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitInitError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
)

func main() {
	returnCode := ExitSuccess
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: cfgi [flags] GRAMMAR_FILE\nDo -h for help.\n")
		returnCode = ExitUsageError
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}

	g, err := gfmt.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: grammar is not valid: %s\n", err)
		returnCode = ExitInitError
		return
	}

	var reader interface {
		ReadCommand() (string, error)
		AllowBlank(bool)
		Close() error
	}
	if *forceDirect {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		reader, err = input.NewInteractiveReader()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: initializing interactive input: %s\n", err)
			returnCode = ExitInitError
			return
		}
	}
	defer reader.Close()

	fmt.Println("cfgi - interactive CFG explorer")
	fmt.Println("Type \"help\" for a list of commands, \"quit\" to exit.")

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			break
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		if cmd == "quit" || cmd == "exit" {
			break
		}

		runCommand(g, cmd, args)
	}
}

func runCommand(g *grammar.Grammar[string], cmd string, args []string) {
	switch cmd {
	case "help":
		printHelp()
	case "list":
		fmt.Println(cfgtext.ListGrammar(g))
	case "null":
		null := analysis.ComputeNull(g)
		fmt.Println(cfgtext.NullReport(g, null))
	case "firstfollow":
		start, ok := g.StartVariable()
		if !ok {
			fmt.Println("ERROR: grammar has no start variable set")
			return
		}
		null := analysis.ComputeNull(g)
		first := analysis.ComputeFirst(g, null)
		follow := analysis.ComputeFollow(g, null, first, start)
		fmt.Println(cfgtext.FirstFollowReport(g, first, follow))
	case "ll1":
		start, ok := g.StartVariable()
		if !ok {
			fmt.Println("ERROR: grammar has no start variable set")
			return
		}
		null := analysis.ComputeNull(g)
		first := analysis.ComputeFirst(g, null)
		follow := analysis.ComputeFollow(g, null, first, start)
		table := ll1BuildWithTerminals(g, null, first, follow)
		fmt.Println(table)
	case "removelr":
		if err := transform.RemoveLeftRecursion(g); err != nil {
			fmt.Printf("ERROR: %s\n", err)
			return
		}
		fmt.Println(gfmt.Write(g))
	case "parse":
		start, ok := g.StartVariable()
		if !ok {
			fmt.Println("ERROR: grammar has no start variable set")
			return
		}
		toks := make([]symbol.Symbol, len(args))
		for i, a := range args {
			toks[i] = g.GetTerminal(a)
		}
		null := analysis.ComputeNull(g)
		chart, ok := earley.Recognize(g, start, toks, null, earley.WithParseTree[string]())
		if !ok {
			fmt.Println("input rejected")
			return
		}
		tree, ok := chart.ExtractTree(start)
		if !ok || tree == nil {
			fmt.Println("input rejected")
			return
		}
		fmt.Println(tree.String())
	default:
		fmt.Printf("unrecognized command %q; type \"help\" for a list of commands\n", cmd)
	}
}

func ll1BuildWithTerminals(g *grammar.Grammar[string], null analysis.NullSet, first analysis.FirstSet, follow analysis.FollowSet) string {
	table := ll1.Build(g, null, first, follow)
	report := cfgtext.Table(g, table, g.OrderedLiveVariables(), liveTerminals(g))
	if conflicts := table.Conflicts(); len(conflicts) > 0 {
		report += "\n\n" + cfgtext.ConflictReport(g, conflicts)
	}
	return report
}

// liveTerminals returns every alphabet terminal actually referenced by a
// grammar's live productions, plus the end-of-input sentinel, for use as
// the terminal header of a rendered LL(1) table.
func liveTerminals(g *grammar.Grammar[string]) []symbol.Symbol {
	seen := make(map[symbol.Symbol]bool)
	var out []symbol.Symbol

	for _, v := range g.LiveVariables() {
		for _, p := range g.LiveProductions(v) {
			for _, s := range p.RHS().Symbols() {
				if s.IsTerminal() && g.IsAlphabetTerminal(s) && !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}

	out = append(out, analysis.EndOfInput)
	return out
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  list                list every production in the grammar")
	fmt.Println("  null                compute and show the nullable variable set")
	fmt.Println("  firstfollow         compute and show FIRST and FOLLOW sets")
	fmt.Println("  ll1                 build and show the LL(1) parsing table")
	fmt.Println("  removelr            rewrite the grammar to remove left recursion")
	fmt.Println("  parse TOKEN...      run an Earley parse over the given tokens")
	fmt.Println("  help                show this message")
	fmt.Println("  quit                exit cfgi")
}
