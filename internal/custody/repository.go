package custody

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAlreadyProvisioned indicates a wallet record already exists for the
	// identity.
	ErrAlreadyProvisioned = errors.New("wallet already provisioned")

	// ErrNotProvisioned indicates no wallet record exists for the identity.
	ErrNotProvisioned = errors.New("wallet not provisioned")
)

// Repository persists wallet records keyed by owner identity. Create must be
// atomic: under concurrent calls for the same identity exactly one succeeds.
type Repository interface {
	Create(ctx context.Context, rec WalletRecord) error
	Get(ctx context.Context, identity string) (WalletRecord, error)
	Exists(ctx context.Context, identity string) (bool, error)
}

// PostgresRepository stores wallet records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record. The primary key on owner identity makes the
// at-most-one guarantee hold under concurrent provisioning.
func (r *PostgresRepository) Create(ctx context.Context, rec WalletRecord) error {
	_, err := r.db.Exec(ctx, `INSERT INTO wallets (owner_identity, address, encrypted_key, created_at)
        VALUES ($1, $2, $3, $4)`, rec.OwnerIdentity, rec.Address, rec.EncryptedKey, rec.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyProvisioned
		}
		return err
	}
	return nil
}

// Get fetches the wallet record for an identity.
func (r *PostgresRepository) Get(ctx context.Context, identity string) (WalletRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT owner_identity, address, encrypted_key, created_at
        FROM wallets WHERE owner_identity = $1`, identity)
	var rec WalletRecord
	var createdAt time.Time
	if err := row.Scan(&rec.OwnerIdentity, &rec.Address, &rec.EncryptedKey, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WalletRecord{}, ErrNotProvisioned
		}
		return WalletRecord{}, err
	}
	rec.CreatedAt = createdAt.UTC()
	return rec, nil
}

// Exists reports whether a wallet record is stored for the identity.
func (r *PostgresRepository) Exists(ctx context.Context, identity string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE owner_identity = $1)`, identity).Scan(&exists)
	return exists, err
}
