package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jask/reconcile/internal/database"
)

type scanner interface {
	Scan(dest ...any) error
}

// DestinationRepo stores payee to destination tallies.
type DestinationRepo struct{ db *sql.DB }

func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

// RelationID is the stable id of a payee/destination pair.
func RelationID(payee, destination string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("hint:"+payee+"\x00"+destination)).String()
}

// AddRelation records one more use of destination for payee.
func (r *DestinationRepo) AddRelation(ctx context.Context, payee, destination string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO payee_destinations(id, payee, destination, tally, seq, updated_at)
	VALUES(?, ?, ?, 1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM payee_destinations), ?)
	ON CONFLICT(payee, destination) DO UPDATE SET
		tally = tally + 1,
		seq = excluded.seq,
		updated_at = excluded.updated_at
	`, RelationID(payee, destination), payee, destination, database.Now())
	return err
}

// Destination returns the destination most often chosen for payee, the most
// recently used one on ties, or "" if payee is unknown.
func (r *DestinationRepo) Destination(ctx context.Context, payee string) (string, error) {
	var dest string
	err := r.db.QueryRowContext(ctx, `
	SELECT destination FROM payee_destinations
	WHERE payee = ?
	ORDER BY tally DESC, seq DESC
	LIMIT 1
	`, payee).Scan(&dest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return dest, err
}

// Relations lists every pairing recorded for payee, best first.
func (r *DestinationRepo) Relations(ctx context.Context, payee string) ([]PayeeDestination, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, payee, destination, tally, seq, updated_at FROM payee_destinations
	WHERE payee = ?
	ORDER BY tally DESC, seq DESC
	`, payee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PayeeDestination
	for rows.Next() {
		pd, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pd)
	}
	return out, rows.Err()
}

// Payees lists every known payee in sorted order.
func (r *DestinationRepo) Payees(ctx context.Context) ([]string, error) {
	return r.strings(ctx, `SELECT DISTINCT payee FROM payee_destinations ORDER BY payee`)
}

// Destinations lists every destination ever chosen in sorted order.
func (r *DestinationRepo) Destinations(ctx context.Context) ([]string, error) {
	return r.strings(ctx, `SELECT DISTINCT destination FROM payee_destinations ORDER BY destination`)
}

// Count is the number of distinct pairings.
func (r *DestinationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payee_destinations`).Scan(&n)
	return n, err
}

func (r *DestinationRepo) strings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanRelation(s scanner) (PayeeDestination, error) {
	var pd PayeeDestination
	err := s.Scan(&pd.ID, &pd.Payee, &pd.Destination, &pd.Tally, &pd.Seq, &pd.UpdatedAt)
	return pd, err
}
