package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/google/uuid"
)

type AccountsDB struct {
	db *sql.DB
}

func (repo *AccountsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *AccountsDB) Close() error { return nil }

func (repo *AccountsDB) Create(ctx context.Context, acc dao.Account) (dao.Account, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Account{}, fmt.Errorf("could not generate ID: %w", err)
	}
	acc.ID = id

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, password_hash, role, created, last_login_time, last_logout_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(acc.ID), acc.Username, acc.PasswordHash, convertToDB_Role(acc.Role),
		convertToDB_Time(acc.Created), convertToDB_Time(acc.LastLoginTime), convertToDB_Time(acc.LastLogoutTime))
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, acc.ID)
}

func (repo *AccountsDB) scanRow(row interface{ Scan(...any) error }) (dao.Account, error) {
	var acc dao.Account
	var id, role string
	var created, lastLogin, lastLogout int64
	err := row.Scan(&id, &acc.Username, &acc.PasswordHash, &role, &created, &lastLogin, &lastLogout)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	if err := convertFromDB_UUID(id, &acc.ID); err != nil {
		return dao.Account{}, err
	}
	if err := convertFromDB_Role(role, &acc.Role); err != nil {
		return dao.Account{}, err
	}
	convertFromDB_Time(created, &acc.Created)
	convertFromDB_Time(lastLogin, &acc.LastLoginTime)
	convertFromDB_Time(lastLogout, &acc.LastLogoutTime)
	return acc, nil
}

func (repo *AccountsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created, last_login_time, last_logout_time FROM accounts WHERE id = ?`,
		convertToDB_UUID(id))
	return repo.scanRow(row)
}

func (repo *AccountsDB) GetByUsername(ctx context.Context, username string) (dao.Account, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created, last_login_time, last_logout_time FROM accounts WHERE username = ?`,
		username)
	return repo.scanRow(row)
}

func (repo *AccountsDB) GetAll(ctx context.Context) ([]dao.Account, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, username, password_hash, role, created, last_login_time, last_logout_time FROM accounts ORDER BY id`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Account
	for rows.Next() {
		acc, err := repo.scanRow(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, acc)
	}
	return all, rows.Err()
}

func (repo *AccountsDB) Update(ctx context.Context, id uuid.UUID, acc dao.Account) (dao.Account, error) {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE accounts SET username = ?, password_hash = ?, role = ?, last_login_time = ?, last_logout_time = ? WHERE id = ?`,
		acc.Username, acc.PasswordHash, convertToDB_Role(acc.Role),
		convertToDB_Time(acc.LastLoginTime), convertToDB_Time(acc.LastLogoutTime), convertToDB_UUID(id))
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, acc.ID)
}

func (repo *AccountsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	acc, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.Account{}, err
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, convertToDB_UUID(id)); err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	return acc, nil
}
