package tunas

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/cfgkit/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies the provided username and password against the existing
// account in persistence and returns that account if they match.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the credentials do not
// match an account or if the password is incorrect, it will match
// serr.ErrBadCredentials. If the error occured due to an unexpected problem
// with the DB, it will match serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.Account, error) {
	acc, err := svc.DB.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrBadCredentials
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	bcryptHash, err := base64.StdEncoding.DecodeString(acc.PasswordHash)
	if err != nil {
		return dao.Account{}, err
	}

	err = bcrypt.CompareHashAndPassword(bcryptHash, []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return dao.Account{}, serr.ErrBadCredentials
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	acc.LastLoginTime = time.Now()
	acc, err = svc.DB.Accounts().Update(ctx, acc.ID, acc)
	if err != nil {
		return dao.Account{}, serr.WrapDB("cannot update account login time", err)
	}

	return acc, nil
}

// Logout marks the account with the given ID as having logged out,
// invalidating any issued token (see [server/token]). Returns the account
// that was logged out.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.Account, error) {
	existing, err := svc.DB.Accounts().GetByID(ctx, who)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not retrieve account", err)
	}

	existing.LastLogoutTime = time.Now()

	updated, err := svc.DB.Accounts().Update(ctx, existing.ID, existing)
	if err != nil {
		return dao.Account{}, serr.WrapDB("could not update account", err)
	}

	return updated, nil
}

// GetAllAccounts returns all accounts currently in persistence.
func (svc Service) GetAllAccounts(ctx context.Context) ([]dao.Account, error) {
	accs, err := svc.DB.Accounts().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return accs, nil
}

// GetAccount returns the account with the given ID.
func (svc Service) GetAccount(ctx context.Context, id string) (dao.Account, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	acc, err := svc.DB.Accounts().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not get account", err)
	}

	return acc, nil
}

// CreateAccount creates a new account with the given username, password, and
// role. Returns the newly-created account as it exists after creation.
func (svc Service) CreateAccount(ctx context.Context, username, password string, role dao.Role) (dao.Account, error) {
	if username == "" {
		return dao.Account{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.Account{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	_, err := svc.DB.Accounts().GetByUsername(ctx, username)
	if err == nil {
		return dao.Account{}, serr.New("an account with that username already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Account{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.Account{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.Account{}, serr.New("password could not be encrypted", err)
	}

	newAcc := dao.Account{
		Username:     username,
		PasswordHash: base64.StdEncoding.EncodeToString(passHash),
		Role:         role,
		Created:      time.Now(),
	}

	acc, err := svc.DB.Accounts().Create(ctx, newAcc)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Account{}, serr.ErrAlreadyExists
		}
		return dao.Account{}, serr.WrapDB("could not create account", err)
	}

	return acc, nil
}

// UpdatePassword sets the password of the account with the given ID to the
// new password. Returns the updated account.
func (svc Service) UpdatePassword(ctx context.Context, id, password string) (dao.Account, error) {
	if password == "" {
		return dao.Account{}, serr.New("password cannot be empty", serr.ErrBadArgument)
	}
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	existing, err := svc.DB.Accounts().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.New("no account with that ID exists", serr.ErrNotFound)
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.Account{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.Account{}, serr.New("password could not be encrypted", err)
	}

	existing.PasswordHash = base64.StdEncoding.EncodeToString(passHash)

	updated, err := svc.DB.Accounts().Update(ctx, uuidID, existing)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.New("no account with that ID exists", serr.ErrNotFound)
		}
		return dao.Account{}, serr.WrapDB("could not update account", err)
	}

	return updated, nil
}

// DeleteAccount deletes the account with the given ID, returning it as it
// existed just before deletion.
func (svc Service) DeleteAccount(ctx context.Context, id string) (dao.Account, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	acc, err := svc.DB.Accounts().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not delete account", err)
	}

	return acc, nil
}
