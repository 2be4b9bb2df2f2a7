package tunas

import (
	"context"
	"errors"
	"strings"

	"github.com/dekarrin/cfgkit/cfgtext"
	"github.com/dekarrin/cfgkit/gfmt"
	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/cfgkit/server/serr"
	"github.com/google/uuid"
)

// CreateGrammar parses source as gfmt grammar text and, if it is well-formed,
// stores it under the given owner. The source is re-validated on every read
// of a stored grammar rather than just at creation, so a grammar is always
// parsed fresh before an analysis runs against it.
func (svc Service) CreateGrammar(ctx context.Context, ownerID uuid.UUID, name, source string) (dao.Grammar, error) {
	if name == "" {
		return dao.Grammar{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if _, err := gfmt.Parse(source); err != nil {
		return dao.Grammar{}, serr.New("grammar source is not valid", err, serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Create(ctx, dao.Grammar{OwnerID: ownerID, Name: name, Source: source})
	if err != nil {
		return dao.Grammar{}, serr.WrapDB("could not create grammar", err)
	}
	return g, nil
}

// GetGrammar returns the stored grammar with the given ID.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}
	return g, nil
}

// ListGrammars returns every grammar owned by the given account.
func (svc Service) ListGrammars(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	gs, err := svc.DB.Grammars().GetAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return gs, nil
}

// UpdateGrammar replaces the name and/or source text of a stored grammar.
// The new source must still parse as a valid gfmt grammar.
func (svc Service) UpdateGrammar(ctx context.Context, id, name, source string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}
	if _, err := gfmt.Parse(source); err != nil {
		return dao.Grammar{}, serr.New("grammar source is not valid", err, serr.ErrBadArgument)
	}

	existing, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("", err)
	}

	existing.Name = name
	existing.Source = source

	updated, err := svc.DB.Grammars().Update(ctx, uuidID, existing)
	if err != nil {
		return dao.Grammar{}, serr.WrapDB("could not update grammar", err)
	}
	return updated, nil
}

// DeleteGrammar deletes the stored grammar with the given ID.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}
	return g, nil
}

// ListAnalysisRuns returns the analysis history recorded against a grammar.
func (svc Service) ListAnalysisRuns(ctx context.Context, grammarID string) ([]dao.AnalysisRun, error) {
	uuidID, err := uuid.Parse(grammarID)
	if err != nil {
		return nil, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	runs, err := svc.DB.AnalysisRuns().GetAllByGrammar(ctx, uuidID)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return runs, nil
}

func (svc Service) loadGrammar(ctx context.Context, grammarID string) (uuid.UUID, *cfgGrammar, error) {
	uuidID, err := uuid.Parse(grammarID)
	if err != nil {
		return uuid.UUID{}, nil, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	stored, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return uuid.UUID{}, nil, serr.ErrNotFound
		}
		return uuid.UUID{}, nil, serr.WrapDB("", err)
	}

	g, err := gfmt.Parse(stored.Source)
	if err != nil {
		return uuid.UUID{}, nil, serr.New("stored grammar source is no longer valid", err)
	}

	return uuidID, g, nil
}

func (svc Service) recordRun(ctx context.Context, grammarID uuid.UUID, kind dao.AnalysisKind, input, result string, accepted bool) (dao.AnalysisRun, error) {
	run, err := svc.DB.AnalysisRuns().Create(ctx, dao.AnalysisRun{
		GrammarID: grammarID,
		Kind:      kind,
		Input:     input,
		Result:    result,
		Accepted:  accepted,
	})
	if err != nil {
		return dao.AnalysisRun{}, serr.WrapDB("could not record analysis run", err)
	}
	return run, nil
}

// AnalyzeNull computes and records the set of nullable variables for a
// stored grammar.
func (svc Service) AnalyzeNull(ctx context.Context, grammarID string) (dao.AnalysisRun, error) {
	id, g, err := svc.loadGrammar(ctx, grammarID)
	if err != nil {
		return dao.AnalysisRun{}, err
	}

	null := computeNull(g)
	report := cfgtext.NullReport(g, null)

	return svc.recordRun(ctx, id, dao.AnalysisNull, "", report, true)
}

// AnalyzeFirstFollow computes and records FIRST and FOLLOW sets for a stored
// grammar.
func (svc Service) AnalyzeFirstFollow(ctx context.Context, grammarID string) (dao.AnalysisRun, error) {
	id, g, err := svc.loadGrammar(ctx, grammarID)
	if err != nil {
		return dao.AnalysisRun{}, err
	}

	start, ok := g.StartVariable()
	if !ok {
		return dao.AnalysisRun{}, serr.New("grammar has no start variable set", serr.ErrBadArgument)
	}

	null := computeNull(g)
	first := computeFirst(g, null)
	follow := computeFollow(g, null, first, start)
	report := cfgtext.FirstFollowReport(g, first, follow)

	return svc.recordRun(ctx, id, dao.AnalysisFirstFollow, "", report, true)
}

// RemoveLeftRecursion rewrites a stored grammar's source to remove direct
// and indirect left recursion, recording the transformed text as the run's
// result. The stored grammar itself is left untouched; apply the result with
// UpdateGrammar if it should replace the original.
func (svc Service) RemoveLeftRecursion(ctx context.Context, grammarID string) (dao.AnalysisRun, error) {
	id, g, err := svc.loadGrammar(ctx, grammarID)
	if err != nil {
		return dao.AnalysisRun{}, err
	}

	if err := removeLeftRecursion(g); err != nil {
		return dao.AnalysisRun{}, serr.New("could not remove left recursion", err)
	}

	return svc.recordRun(ctx, id, dao.AnalysisLeftRecurse, "", gfmt.Write(g), true)
}

// BuildLL1Table computes and records the LL(1) parsing table for a stored
// grammar. Accepted reports whether the grammar is LL(1) (i.e. the table has
// no conflicts).
func (svc Service) BuildLL1Table(ctx context.Context, grammarID string) (dao.AnalysisRun, error) {
	id, g, err := svc.loadGrammar(ctx, grammarID)
	if err != nil {
		return dao.AnalysisRun{}, err
	}

	start, ok := g.StartVariable()
	if !ok {
		return dao.AnalysisRun{}, serr.New("grammar has no start variable set", serr.ErrBadArgument)
	}

	null := computeNull(g)
	first := computeFirst(g, null)
	follow := computeFollow(g, null, first, start)
	table := buildLL1(g, null, first, follow)

	report := cfgtext.Table(g, table, g.OrderedLiveVariables(), liveTerminals(g))
	if conflicts := table.Conflicts(); len(conflicts) > 0 {
		report += "\n\n" + cfgtext.ConflictReport(g, conflicts)
	}

	return svc.recordRun(ctx, id, dao.AnalysisLL1Table, "", report, table.IsLL1())
}

// RunEarleyParse attempts to recognize input (a whitespace-separated token
// stream) against a stored grammar using the Earley algorithm, recording
// whether it was accepted and, if so, the derivation tree.
func (svc Service) RunEarleyParse(ctx context.Context, grammarID, input string) (dao.AnalysisRun, error) {
	id, g, err := svc.loadGrammar(ctx, grammarID)
	if err != nil {
		return dao.AnalysisRun{}, err
	}

	start, ok := g.StartVariable()
	if !ok {
		return dao.AnalysisRun{}, serr.New("grammar has no start variable set", serr.ErrBadArgument)
	}

	null := computeNull(g)
	tokens := tokenizeInput(g, input)

	tree, accepted := recognize(g, start, tokens, null)

	result := "input rejected"
	if accepted && tree != nil {
		result = tree.String()
	}

	return svc.recordRun(ctx, id, dao.AnalysisEarleyParse, input, result, accepted)
}

func tokenizeInput(g *cfgGrammar, input string) []cfgSymbol {
	fields := strings.Fields(input)
	toks := make([]cfgSymbol, len(fields))
	for i, f := range fields {
		toks[i] = g.GetTerminal(f)
	}
	return toks
}
