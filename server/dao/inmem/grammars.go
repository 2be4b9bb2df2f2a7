package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *GrammarsRepository {
	return &GrammarsRepository{byID: make(map[uuid.UUID]dao.Grammar)}
}

type GrammarsRepository struct {
	byID map[uuid.UUID]dao.Grammar
}

func (r *GrammarsRepository) Close() error { return nil }

func (r *GrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}
	g.ID = id
	g.Created = time.Now()
	g.Modified = g.Created
	r.byID[g.ID] = g
	return g, nil
}

func (r *GrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := r.byID[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	return g, nil
}

func (r *GrammarsRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	var out []dao.Grammar
	for _, g := range r.byID {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (r *GrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	out := make([]dao.Grammar, 0, len(r.byID))
	for _, g := range r.byID {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (r *GrammarsRepository) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	if _, ok := r.byID[id]; !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	g.Modified = time.Now()
	r.byID[g.ID] = g
	return g, nil
}

func (r *GrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := r.byID[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	delete(r.byID, id)
	return g, nil
}
