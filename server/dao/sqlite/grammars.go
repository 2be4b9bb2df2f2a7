package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// grammarRecord is the part of a dao.Grammar that gets rezi-encoded into the
// blob column, rather than broken out into its own indexed column. Keeping
// name and source text together in one blob means adding a field to what's
// stored doesn't require a schema migration.
type grammarRecord struct {
	Name   string
	Source string
}

func (r grammarRecord) MarshalBinary() ([]byte, error) {
	enc := rezi.EncBinary(r.Name)
	enc = append(enc, rezi.EncBinary(r.Source)...)
	return enc, nil
}

func (r *grammarRecord) UnmarshalBinary(data []byte) error {
	n, err := rezi.DecBinary(data, &r.Name)
	if err != nil {
		return fmt.Errorf("decode name: %w", err)
	}
	data = data[n:]

	if _, err := rezi.DecBinary(data, &r.Source); err != nil {
		return fmt.Errorf("decode source: %w", err)
	}
	return nil
}

func convertToDB_GrammarRecord(name, source string) string {
	data := rezi.EncBinary(grammarRecord{Name: name, Source: source})
	return base64.StdEncoding.EncodeToString(data)
}

func convertFromDB_GrammarRecord(s string, name, source *string) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}

	var rec grammarRecord
	n, err := rezi.DecBinary(data, &rec)
	if err != nil {
		return fmt.Errorf("%w: REZI decode: %s", dao.ErrDecodingFailure, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: REZI decoded byte count mismatch; only consumed %d/%d bytes", dao.ErrDecodingFailure, n, len(data))
	}

	*name = rec.Name
	*source = rec.Source
	return nil
}

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL,
		data TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *GrammarsDB) Close() error { return nil }

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}
	g.ID = id
	now := time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO grammars (id, owner_id, data, created, modified) VALUES (?, ?, ?, ?, ?)`,
		convertToDB_UUID(g.ID), convertToDB_UUID(g.OwnerID), convertToDB_GrammarRecord(g.Name, g.Source),
		convertToDB_Time(now), convertToDB_Time(now))
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, g.ID)
}

func (repo *GrammarsDB) scanRow(row interface{ Scan(...any) error }) (dao.Grammar, error) {
	var g dao.Grammar
	var id, ownerID, data string
	var created, modified int64
	err := row.Scan(&id, &ownerID, &data, &created, &modified)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return dao.Grammar{}, err
	}
	if err := convertFromDB_UUID(ownerID, &g.OwnerID); err != nil {
		return dao.Grammar{}, err
	}
	if err := convertFromDB_GrammarRecord(data, &g.Name, &g.Source); err != nil {
		return dao.Grammar{}, err
	}
	convertFromDB_Time(created, &g.Created)
	convertFromDB_Time(modified, &g.Modified)
	return g, nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, owner_id, data, created, modified FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	return repo.scanRow(row)
}

func (repo *GrammarsDB) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, owner_id, data, created, modified FROM grammars WHERE owner_id = ? ORDER BY created`,
		convertToDB_UUID(ownerID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		g, err := repo.scanRow(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, g)
	}
	return all, rows.Err()
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, owner_id, data, created, modified FROM grammars ORDER BY created`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		g, err := repo.scanRow(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, g)
	}
	return all, rows.Err()
}

func (repo *GrammarsDB) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE grammars SET data = ?, modified = ? WHERE id = ?`,
		convertToDB_GrammarRecord(g.Name, g.Source), convertToDB_Time(time.Now()), convertToDB_UUID(id))
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, id)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.Grammar{}, err
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id)); err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	return g, nil
}
