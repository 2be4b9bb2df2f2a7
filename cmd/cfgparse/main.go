/*
Cfgparse runs a single analysis or transform over a gfmt grammar file and
prints the result to stdout.

Usage:

	cfgparse [flags] MODE GRAMMAR_FILE

MODE must be one of:

	list             list every production in the grammar
	null             compute the nullable variable set
	firstfollow      compute FIRST and FOLLOW sets
	removelr         rewrite the grammar to remove left recursion, printing
	                 the result as gfmt source
	ll1              build the LL(1) parsing table

The flags are:

	-v, --version
		Give the current version of cfgparse and then exit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/cfgtext"
	"github.com/dekarrin/cfgkit/gfmt"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/internal/version"
	"github.com/dekarrin/cfgkit/ll1"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/transform"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitParseError
	ExitAnalysisError
)

var flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return ExitSuccess
	}

	args := pflag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: cfgparse [flags] MODE GRAMMAR_FILE\nDo -h for help.\n")
		return ExitUsageError
	}
	mode, file := args[0], args[1]

	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitParseError
	}

	g, err := gfmt.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: grammar is not valid: %s\n", err)
		return ExitParseError
	}

	switch mode {
	case "list":
		fmt.Println(cfgtext.ListGrammar(g))
	case "null":
		null := analysis.ComputeNull(g)
		fmt.Println(cfgtext.NullReport(g, null))
	case "firstfollow":
		start, ok := g.StartVariable()
		if !ok {
			fmt.Fprintln(os.Stderr, "ERROR: grammar has no start variable set")
			return ExitAnalysisError
		}
		null := analysis.ComputeNull(g)
		first := analysis.ComputeFirst(g, null)
		follow := analysis.ComputeFollow(g, null, first, start)
		fmt.Println(cfgtext.FirstFollowReport(g, first, follow))
	case "removelr":
		if err := transform.RemoveLeftRecursion(g); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return ExitAnalysisError
		}
		fmt.Println(gfmt.Write(g))
	case "ll1":
		start, ok := g.StartVariable()
		if !ok {
			fmt.Fprintln(os.Stderr, "ERROR: grammar has no start variable set")
			return ExitAnalysisError
		}
		null := analysis.ComputeNull(g)
		first := analysis.ComputeFirst(g, null)
		follow := analysis.ComputeFollow(g, null, first, start)
		table := ll1.Build(g, null, first, follow)
		report := cfgtext.Table(g, table, g.OrderedLiveVariables(), liveTerminals(g))
		if conflicts := table.Conflicts(); len(conflicts) > 0 {
			report += "\n\n" + cfgtext.ConflictReport(g, conflicts)
		}
		fmt.Println(report)
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unrecognized mode %q\nDo -h for help.\n", mode)
		return ExitUsageError
	}

	return ExitSuccess
}

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
