/*
Cfgearley runs the Earley recognizer over a gfmt grammar file and a
whitespace-separated token stream, reporting whether the input was accepted
and, optionally, the resulting derivation tree or chart of predicted items.

Usage:

	cfgearley [flags] GRAMMAR_FILE TOKEN...

The flags are:

	-v, --version
		Give the current version of cfgearley and then exit.

	--predict
		Print the full chart of items (including predictions) for each
		input column rather than just the accept/reject result.

	--tree[=FORMAT]
		On acceptance, also print the derivation tree. FORMAT is "lisp"
		(the default, an s-expression) or "dot" (a Graphviz digraph).
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/earley"
	"github.com/dekarrin/cfgkit/gfmt"
	"github.com/dekarrin/cfgkit/internal/version"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitParseError
	ExitAnalysisError
	ExitRejected
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagPredict = pflag.Bool("predict", false, "Print the full chart of items for each column")
	flagTree    = pflag.String("tree", "", "On acceptance, also print the derivation tree (lisp or dot)")
)

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
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: cfgearley [flags] GRAMMAR_FILE TOKEN...\nDo -h for help.\n")
		return ExitUsageError
	}
	file := args[0]
	tokens := args[1:]

	treeFormat := *flagTree
	if pflag.Lookup("tree").Changed && treeFormat == "" {
		treeFormat = "lisp"
	}
	if treeFormat != "" && treeFormat != "lisp" && treeFormat != "dot" {
		fmt.Fprintf(os.Stderr, "ERROR: --tree must be \"lisp\" or \"dot\", got %q\n", treeFormat)
		return ExitUsageError
	}

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

	start, ok := g.StartVariable()
	if !ok {
		fmt.Fprintln(os.Stderr, "ERROR: grammar has no start variable set")
		return ExitAnalysisError
	}

	input := make([]symbol.Symbol, len(tokens))
	for i, tok := range tokens {
		input[i] = g.GetTerminal(tok)
	}

	null := analysis.ComputeNull(g)

	var opts []earley.Option[string]
	if treeFormat != "" {
		opts = append(opts, earley.WithParseTree[string]())
	}

	chart, accepted := earley.Recognize(g, start, input, null, opts...)

	if *flagPredict {
		printChart(chart)
	}

	if !accepted {
		fmt.Println("input rejected")
		return ExitRejected
	}
	fmt.Println("input accepted")

	if treeFormat != "" {
		tree, ok := chart.ExtractTree(start)
		if !ok || tree == nil {
			fmt.Println("(no parse tree could be extracted)")
			return ExitSuccess
		}
		switch treeFormat {
		case "lisp":
			fmt.Println(tree.String())
		case "dot":
			fmt.Println(treeToDot(tree))
		}
	}

	return ExitSuccess
}

func printChart(chart *earley.Chart[string]) {
	for i := 0; i < chart.NumColumns(); i++ {
		fmt.Printf("== column %d ==\n", i)
		for _, it := range chart.Items(i) {
			fmt.Println(it.String())
		}
	}
}

func treeToDot(t *earley.Tree[string]) string {
	out := "digraph parse {\n"
	counter := 0
	out += treeToDotNode(t, &counter)
	out += "}"
	return out
}

func treeToDotNode(t *earley.Tree[string], counter *int) string {
	id := *counter
	*counter++

	var label string
	if t.IsLeaf {
		label = t.Leaf.String()
	} else {
		label = t.Production.Variable().String()
	}

	out := fmt.Sprintf("  n%d [label=%q];\n", id, label)
	for _, c := range t.Children {
		childID := *counter
		out += treeToDotNode(c, counter)
		out += fmt.Sprintf("  n%d -> n%d;\n", id, childID)
	}
	return out
}
