package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/google/uuid"
)

func NewAnalysisRunsRepository() *AnalysisRunsRepository {
	return &AnalysisRunsRepository{byID: make(map[uuid.UUID]dao.AnalysisRun)}
}

type AnalysisRunsRepository struct {
	byID map[uuid.UUID]dao.AnalysisRun
}

func (r *AnalysisRunsRepository) Close() error { return nil }

func (r *AnalysisRunsRepository) Create(ctx context.Context, run dao.AnalysisRun) (dao.AnalysisRun, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.AnalysisRun{}, fmt.Errorf("could not generate ID: %w", err)
	}
	run.ID = id
	run.Created = time.Now()
	r.byID[run.ID] = run
	return run, nil
}

func (r *AnalysisRunsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.AnalysisRun, error) {
	run, ok := r.byID[id]
	if !ok {
		return dao.AnalysisRun{}, dao.ErrNotFound
	}
	return run, nil
}

func (r *AnalysisRunsRepository) GetAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]dao.AnalysisRun, error) {
	var out []dao.AnalysisRun
	for _, run := range r.byID {
		if run.GrammarID == grammarID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (r *AnalysisRunsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.AnalysisRun, error) {
	run, ok := r.byID[id]
	if !ok {
		return dao.AnalysisRun{}, dao.ErrNotFound
	}
	delete(r.byID, id)
	return run, nil
}
