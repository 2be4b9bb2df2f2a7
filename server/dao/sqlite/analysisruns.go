package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/google/uuid"
)

type AnalysisRunsDB struct {
	db *sql.DB
}

func (repo *AnalysisRunsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT NOT NULL PRIMARY KEY,
		grammar_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		input TEXT NOT NULL,
		result TEXT NOT NULL,
		accepted INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *AnalysisRunsDB) Close() error { return nil }

func (repo *AnalysisRunsDB) Create(ctx context.Context, run dao.AnalysisRun) (dao.AnalysisRun, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.AnalysisRun{}, fmt.Errorf("could not generate ID: %w", err)
	}
	run.ID = id
	run.Created = time.Now()

	accepted := 0
	if run.Accepted {
		accepted = 1
	}

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, grammar_id, kind, input, result, accepted, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(run.ID), convertToDB_UUID(run.GrammarID), string(run.Kind), run.Input, run.Result,
		accepted, convertToDB_Time(run.Created))
	if err != nil {
		return dao.AnalysisRun{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, run.ID)
}

func (repo *AnalysisRunsDB) scanRow(row interface{ Scan(...any) error }) (dao.AnalysisRun, error) {
	var run dao.AnalysisRun
	var id, grammarID, kind string
	var accepted int
	var created int64
	err := row.Scan(&id, &grammarID, &kind, &run.Input, &run.Result, &accepted, &created)
	if err != nil {
		return dao.AnalysisRun{}, wrapDBError(err)
	}
	if err := convertFromDB_UUID(id, &run.ID); err != nil {
		return dao.AnalysisRun{}, err
	}
	if err := convertFromDB_UUID(grammarID, &run.GrammarID); err != nil {
		return dao.AnalysisRun{}, err
	}
	run.Kind = dao.AnalysisKind(kind)
	run.Accepted = accepted != 0
	convertFromDB_Time(created, &run.Created)
	return run, nil
}

func (repo *AnalysisRunsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.AnalysisRun, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, grammar_id, kind, input, result, accepted, created FROM analysis_runs WHERE id = ?`,
		convertToDB_UUID(id))
	return repo.scanRow(row)
}

func (repo *AnalysisRunsDB) GetAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]dao.AnalysisRun, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, grammar_id, kind, input, result, accepted, created FROM analysis_runs WHERE grammar_id = ? ORDER BY created`,
		convertToDB_UUID(grammarID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.AnalysisRun
	for rows.Next() {
		run, err := repo.scanRow(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, run)
	}
	return all, rows.Err()
}

func (repo *AnalysisRunsDB) Delete(ctx context.Context, id uuid.UUID) (dao.AnalysisRun, error) {
	run, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.AnalysisRun{}, err
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, convertToDB_UUID(id)); err != nil {
		return dao.AnalysisRun{}, wrapDBError(err)
	}
	return run, nil
}
