// Package transform implements grammar-to-grammar rewrites that preserve
// the described language: currently, left-recursion elimination.
package transform

import (
	"github.com/dekarrin/cfgkit/cfgerr"
	"github.com/dekarrin/cfgkit/grammar"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

// RemoveLeftRecursion rewrites g in place so that no variable admits a
// left-recursive derivation V ⇒⁺ Vγ, following the standard ordered
// substitution/immediate-elimination algorithm. Fresh variables introduced
// along the way use the grammar's auto "$N" naming scheme.
//
// It fails with a cfgerr.KindUnproductiveGrammar error, leaving g partially
// transformed, if some variable's immediate left recursion cannot be
// eliminated because it has no non-left-recursive base production.
func RemoveLeftRecursion[T comparable](g *grammar.Grammar[T]) error {
	order := g.LiveVariables()

	for i, ai := range order {
		for j := 0; j < i; j++ {
			aj := order[j]
			if err := substituteLeading(g, ai, aj); err != nil {
				return err
			}
		}
		if err := eliminateImmediate(g, ai); err != nil {
			return err
		}
	}
	return nil
}

// substituteLeading replaces every production ai -> aj·γ with one
// production per aj's current alternatives: ai -> δ·γ for each aj -> δ.
func substituteLeading[T comparable](g *grammar.Grammar[T], ai, aj symbol.Symbol) error {
	for _, p := range g.LiveProductions(ai) {
		rhs := p.RHS()
		if rhs.Len() == 0 || rhs.At(0) != aj {
			continue
		}
		gamma := rhs.Slice(1, rhs.Len())

		if err := g.RemoveProduction(p); err != nil {
			return err
		}
		for _, dp := range g.LiveProductions(aj) {
			if _, err := g.AddProduction(ai, dp.RHS().Concat(gamma)); err != nil {
				return err
			}
		}
	}
	return nil
}

// eliminateImmediate partitions ai's productions into left-recursive
// ai -> ai·α and the rest ai -> β, and — when left-recursive alternatives
// exist — rewrites them via a fresh ai′ per the textbook transform.
func eliminateImmediate[T comparable](g *grammar.Grammar[T], ai symbol.Symbol) error {
	prods := g.LiveProductions(ai)

	var alphas, betas []symstring.String
	for _, p := range prods {
		rhs := p.RHS()
		if rhs.Len() > 0 && rhs.At(0) == ai {
			alphas = append(alphas, rhs.Slice(1, rhs.Len()))
		} else {
			betas = append(betas, rhs)
		}
	}
	if len(alphas) == 0 {
		return nil
	}
	if len(betas) == 0 {
		return cfgerr.UnproductiveGrammar(g.Name(ai))
	}

	aiPrime := g.AddVariable()

	for _, p := range prods {
		if err := g.RemoveProduction(p); err != nil {
			return err
		}
	}
	for _, beta := range betas {
		if _, err := g.AddProduction(ai, beta.Concat(symstring.New(aiPrime))); err != nil {
			return err
		}
	}
	for _, alpha := range alphas {
		if _, err := g.AddProduction(aiPrime, alpha.Concat(symstring.New(aiPrime))); err != nil {
			return err
		}
	}
	if _, err := g.AddProduction(aiPrime, symstring.Epsilon()); err != nil {
		return err
	}
	return nil
}
