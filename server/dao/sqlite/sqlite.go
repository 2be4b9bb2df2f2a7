// Package sqlite is a dao.Store backed by modernc.org/sqlite, storing
// accounts, grammars, and analysis runs in a single on-disk database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	accounts *AccountsDB
	grammars *GrammarsDB
	runs     *AnalysisRunsDB
}

// NewDatastore opens (creating if necessary) a sqlite database under
// storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "cfgkit.db"}

	file := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.accounts = &AccountsDB{db: st.db}
	if err := st.accounts.init(); err != nil {
		return nil, err
	}
	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		return nil, err
	}
	st.runs = &AnalysisRunsDB{db: st.db}
	if err := st.runs.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Accounts() dao.AccountRepository         { return s.accounts }
func (s *store) Grammars() dao.GrammarRepository         { return s.grammars }
func (s *store) AnalysisRuns() dao.AnalysisRunRepository { return s.runs }

func (s *store) Close() error {
	return s.db.Close()
}

func convertToDB_UUID(u uuid.UUID) string { return u.String() }
func convertToDB_Time(t time.Time) int64  { return t.Unix() }
func convertToDB_Role(r dao.Role) string  { return r.String() }

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = u
	return nil
}

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = r
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
