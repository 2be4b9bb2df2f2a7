package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/google/uuid"
)

func NewAccountsRepository() *AccountsRepository {
	return &AccountsRepository{
		byID:       make(map[uuid.UUID]dao.Account),
		byUsername: make(map[string]uuid.UUID),
	}
}

type AccountsRepository struct {
	byID       map[uuid.UUID]dao.Account
	byUsername map[string]uuid.UUID
}

func (r *AccountsRepository) Close() error { return nil }

func (r *AccountsRepository) Create(ctx context.Context, acc dao.Account) (dao.Account, error) {
	if _, ok := r.byUsername[acc.Username]; ok {
		return dao.Account{}, dao.ErrConstraintViolation
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Account{}, fmt.Errorf("could not generate ID: %w", err)
	}
	acc.ID = id
	acc.Created = time.Now()
	acc.LastLogoutTime = acc.Created

	r.byID[acc.ID] = acc
	r.byUsername[acc.Username] = acc.ID
	return acc, nil
}

func (r *AccountsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	acc, ok := r.byID[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}
	return acc, nil
}

func (r *AccountsRepository) GetByUsername(ctx context.Context, username string) (dao.Account, error) {
	id, ok := r.byUsername[username]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *AccountsRepository) GetAll(ctx context.Context) ([]dao.Account, error) {
	all := make([]dao.Account, 0, len(r.byID))
	for _, acc := range r.byID {
		all = append(all, acc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })
	return all, nil
}

func (r *AccountsRepository) Update(ctx context.Context, id uuid.UUID, acc dao.Account) (dao.Account, error) {
	existing, ok := r.byID[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}
	if acc.Username != existing.Username {
		if _, ok := r.byUsername[acc.Username]; ok {
			return dao.Account{}, dao.ErrConstraintViolation
		}
		delete(r.byUsername, existing.Username)
		r.byUsername[acc.Username] = acc.ID
	}
	r.byID[acc.ID] = acc
	return acc, nil
}

func (r *AccountsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	acc, ok := r.byID[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}
	delete(r.byUsername, acc.Username)
	delete(r.byID, id)
	return acc, nil
}
