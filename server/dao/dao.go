// Package dao provides data access objects for the cfgkit server: accounts,
// stored grammars, and the analysis runs performed against them.
package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds every repository the server needs.
type Store interface {
	Accounts() AccountRepository
	Grammars() GrammarRepository
	AnalysisRuns() AnalysisRunRepository
	Close() error
}

// Role is an account's authorization level.
type Role int

const (
	Guest Role = iota
	Normal
	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

// ParseRole parses the string form produced by Role.String.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "guest":
		return Guest, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'normal', or 'admin'")
	}
}

// Account is a registered server user.
type Account struct {
	ID             uuid.UUID
	Username       string
	PasswordHash   string
	Role           Role
	Created        time.Time
	LastLoginTime  time.Time
	LastLogoutTime time.Time
}

// AccountRepository persists Accounts.
type AccountRepository interface {
	Create(ctx context.Context, acc Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	Update(ctx context.Context, id uuid.UUID, acc Account) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) (Account, error)
	Close() error
}

// Grammar is a stored grammar, kept in gfmt source form alongside whatever
// the owning account named it.
type Grammar struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Name     string
	Source   string // gfmt source text
	Created  time.Time
	Modified time.Time
}

// GrammarRepository persists Grammars.
type GrammarRepository interface {
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	Update(ctx context.Context, id uuid.UUID, g Grammar) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

// AnalysisKind names the kind of analysis an AnalysisRun recorded.
type AnalysisKind string

const (
	AnalysisNull         AnalysisKind = "null"
	AnalysisFirstFollow  AnalysisKind = "first-follow"
	AnalysisLeftRecurse  AnalysisKind = "remove-left-recursion"
	AnalysisLL1Table     AnalysisKind = "ll1-table"
	AnalysisEarleyParse  AnalysisKind = "earley-parse"
)

// AnalysisRun is the recorded outcome of running one analysis or transform
// against a stored grammar.
type AnalysisRun struct {
	ID        uuid.UUID
	GrammarID uuid.UUID
	Kind      AnalysisKind
	Input     string // e.g. the token stream given to an Earley run
	Result    string // rendered text of the outcome
	Accepted  bool   // meaningful only for AnalysisEarleyParse
	Created   time.Time
}

// AnalysisRunRepository persists AnalysisRuns.
type AnalysisRunRepository interface {
	Create(ctx context.Context, run AnalysisRun) (AnalysisRun, error)
	GetByID(ctx context.Context, id uuid.UUID) (AnalysisRun, error)
	GetAllByGrammar(ctx context.Context, grammarID uuid.UUID) ([]AnalysisRun, error)
	Delete(ctx context.Context, id uuid.UUID) (AnalysisRun, error)
	Close() error
}
