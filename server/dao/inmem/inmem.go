// Package inmem is an in-memory dao.Store, suitable for tests and for
// running the server with no persistence.
package inmem

import (
	"fmt"

	"github.com/dekarrin/cfgkit/server/dao"
)

type store struct {
	accounts *AccountsRepository
	grammars *GrammarsRepository
	runs     *AnalysisRunsRepository
}

// NewDatastore returns a dao.Store backed entirely by in-memory maps.
func NewDatastore() dao.Store {
	return &store{
		accounts: NewAccountsRepository(),
		grammars: NewGrammarsRepository(),
		runs:     NewAnalysisRunsRepository(),
	}
}

func (s *store) Accounts() dao.AccountRepository         { return s.accounts }
func (s *store) Grammars() dao.GrammarRepository         { return s.grammars }
func (s *store) AnalysisRuns() dao.AnalysisRunRepository { return s.runs }

func (s *store) Close() error {
	var err error
	for _, next := range []error{s.accounts.Close(), s.grammars.Close(), s.runs.Close()} {
		if next == nil {
			continue
		}
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, next)
		} else {
			err = next
		}
	}
	return err
}
