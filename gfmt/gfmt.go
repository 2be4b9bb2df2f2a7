// Package gfmt reads and writes the line-oriented grammar source format
// used by the CLI tools: one rule per line of the form
//
//	V -> a B c | ε
//
// with rules separated by ";", alternatives by "|", and symbols by
// whitespace. A symbol written in all lowercase is a terminal; one written
// in all uppercase is a variable; "ε" (or "eps") denotes the empty
// production.
package gfmt

import (
	"fmt"
	"strings"

	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

// Parse reads source into a fresh string-alphabet grammar. The first rule
// encountered names the start variable.
func Parse(source string) (*grammar.Grammar[string], error) {
	g := grammar.New[string]()
	var start symbol.Symbol
	haveStart := false

	for _, line := range strings.Split(source, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		v, rhsAlts, err := parseRule(g, line)
		if err != nil {
			return nil, err
		}
		if !haveStart {
			start = v
			haveStart = true
		}
		for _, rhs := range rhsAlts {
			if _, err := g.AddProduction(v, rhs); err != nil {
				return nil, err
			}
		}
	}

	if !haveStart {
		return nil, fmt.Errorf("gfmt: source contains no rules")
	}
	if err := g.SetStartVariable(start); err != nil {
		return nil, err
	}
	return g, nil
}

func parseRule(g *grammar.Grammar[string], line string) (symbol.Symbol, []symstring.String, error) {
	sides := strings.SplitN(line, "->", 2)
	if len(sides) != 2 {
		return 0, nil, fmt.Errorf("gfmt: not a rule of the form \"V -> a B c | ...\": %q", line)
	}

	name := strings.TrimSpace(sides[0])
	if name == "" {
		return 0, nil, fmt.Errorf("gfmt: empty variable name in rule: %q", line)
	}
	v, err := g.GetVariable(name)
	if err != nil {
		return 0, nil, err
	}

	var alts []symstring.String
	for _, alt := range strings.Split(sides[1], "|") {
		alt = strings.TrimSpace(alt)
		if alt == "" || strings.EqualFold(alt, "eps") || alt == "ε" {
			alts = append(alts, symstring.Epsilon())
			continue
		}

		var syms []symbol.Symbol
		for _, tok := range strings.Fields(alt) {
			sym, err := parseSymbol(g, tok)
			if err != nil {
				return 0, nil, err
			}
			syms = append(syms, sym)
		}
		alts = append(alts, symstring.New(syms...))
	}
	return v, alts, nil
}

func parseSymbol(g *grammar.Grammar[string], tok string) (symbol.Symbol, error) {
	switch {
	case strings.ToLower(tok) == tok:
		return g.GetTerminal(tok), nil
	case strings.ToUpper(tok) == tok:
		return g.GetVariable(tok)
	default:
		return 0, fmt.Errorf("gfmt: cannot tell if symbol is a terminal or a variable (mixed case): %q", tok)
	}
}

// Write renders g back into gfmt source, one rule per line, in the order
// its variables were created.
func Write(g *grammar.Grammar[string]) string {
	var sb strings.Builder
	for _, v := range g.LiveVariables() {
		prods := g.LiveProductions(v)
		sb.WriteString(g.Name(v))
		sb.WriteString(" -> ")
		for i, p := range prods {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(rhsString(g, p.RHS()))
		}
		sb.WriteString(";\n")
	}
	return sb.String()
}

func rhsString(g *grammar.Grammar[string], rhs symstring.String) string {
	if rhs.IsEpsilon() {
		return "ε"
	}
	syms := rhs.Symbols()
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = g.Name(s)
	}
	return strings.Join(parts, " ")
}
