// Package cfgtext renders grammars, analysis results, and LL(1) tables as
// human-readable text, using rosed for wrapping and table layout the same
// way the rest of the toolkit's ancestry does.
package cfgtext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/cfgkit/analysis"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/ll1"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/rosed"
)

// width is the default column width used when wrapping and laying out
// tables, matching the 80-column convention the rest of the corpus uses.
const width = 80

// ListGrammar renders every live variable's productions, one line per
// production, grouped under its variable.
func ListGrammar[T comparable](g *grammar.Grammar[T]) string {
	var sb strings.Builder
	for _, v := range orderedVariables(g) {
		for _, p := range g.LiveProductions(v) {
			sb.WriteString(p.String())
			sb.WriteRune('\n')
		}
	}
	return rosed.Edit(sb.String()).Wrap(width).String()
}

// NullReport renders every variable found nullable by ComputeNull, one
// name per line, alphabetized.
func NullReport[T comparable](g *grammar.Grammar[T], null analysis.NullSet) string {
	var names []string
	for v, ok := range null {
		if ok {
			names = append(names, g.Name(v))
		}
	}
	sort.Strings(names)
	return JoinList(names)
}

// FirstFollowReport renders a two-column table of FIRST and FOLLOW sets,
// one row per live variable.
func FirstFollowReport[T comparable](g *grammar.Grammar[T], first analysis.FirstSet, follow analysis.FollowSet) string {
	data := [][]string{{"Variable", "FIRST", "FOLLOW"}}
	for _, v := range orderedVariables(g) {
		data = append(data, []string{
			g.Name(v),
			termSetString(g, first[v]),
			termSetString(g, follow[v]),
		})
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{TableBorders: true}).
		String()
}

// Table renders an LL(1) parse table as a bordered grid, one row per
// variable and one column per terminal (plus the end-of-input marker).
func Table[T comparable](g *grammar.Grammar[T], t *ll1.Table[T], variables []symbol.Symbol, terminals []symbol.Symbol) string {
	header := []string{""}
	for _, a := range terminals {
		header = append(header, terminalHeader(g, a))
	}
	data := [][]string{header}

	for _, v := range variables {
		row := []string{g.Name(v)}
		for _, a := range terminals {
			if id, ok := t.Get(v, a); ok {
				row = append(row, fmt.Sprintf("p%d", id))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{TableBorders: true}).
		String()
}

// ConflictReport renders one line per LL(1) cell conflict.
func ConflictReport[T comparable](g *grammar.Grammar[T], conflicts []ll1.Conflict) string {
	if len(conflicts) == 0 {
		return "no conflicts"
	}
	var lines []string
	for _, c := range conflicts {
		lines = append(lines, fmt.Sprintf("(%s, %s): production %d evicted by production %d",
			g.Name(c.Variable), terminalName(g, c.Terminal), c.Evicted, c.Winner))
	}
	return strings.Join(lines, "\n")
}

// JoinList joins items with commas and a trailing "and", the same
// oxford-comma convention the toolkit's help text and reports use
// throughout.
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		out := make([]string, len(items))
		copy(out, items)
		out[len(out)-1] = "and " + out[len(out)-1]
		return strings.Join(out, ", ")
	}
}

func orderedVariables[T comparable](g *grammar.Grammar[T]) []symbol.Symbol {
	return g.OrderedLiveVariables()
}

func terminalName[T comparable](g *grammar.Grammar[T], a symbol.Symbol) string {
	if a == analysis.EndOfInput {
		return "$"
	}
	return g.Name(a)
}

func terminalHeader[T comparable](g *grammar.Grammar[T], a symbol.Symbol) string {
	return terminalName(g, a)
}

func termSetString[T comparable](g *grammar.Grammar[T], ts analysis.TerminalSet) string {
	var names []string
	for _, s := range ts.Symbols() {
		names = append(names, g.Name(s))
	}
	sort.Strings(names)
	if ts.HasEndOfInput() {
		names = append(names, "$")
	}
	return "{" + strings.Join(names, ", ") + "}"
}
