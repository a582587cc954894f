package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-finance-tracker/models"
)

const (
	createUser = `INSERT INTO users (full_name, email, password_hash, profile_image_url, activated, otp_code, otp_expires_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING user_id, created_at;`

	findUserByEmail = `SELECT user_id, full_name, email, password_hash, profile_image_url, activated, otp_code, otp_expires_at, created_at
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT user_id, full_name, email, password_hash, profile_image_url, activated, otp_code, otp_expires_at, created_at
    FROM users
    WHERE user_id = $1;`

	deletePendingUserByEmail = `DELETE FROM users
    WHERE email = $1 AND activated = false;`

	activateUser = `UPDATE users
    SET activated = true, otp_code = '', otp_expires_at = NULL
    WHERE user_id = $1 AND activated = false AND otp_code = $2;`

	deleteExpiredPendingUsers = `DELETE FROM users
    WHERE activated = false AND otp_expires_at < $1;`
)

const ledgerTable = "ledger_entries"

var ledgerColumns = []string{
	"id",
	"user_id",
	"kind",
	"label",
	"amount",
	"entry_date",
	"icon",
	"created_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ledgerWhere translates a filter into WHERE predicates. Limit is not part
// of the predicate set.
func ledgerWhere(filter models.EntryFilter) sq.And {
	where := sq.And{sq.Eq{"user_id": filter.UserID}}
	if filter.Kind != "" {
		where = append(where, sq.Eq{"kind": string(filter.Kind)})
	}
	if filter.Since != nil {
		where = append(where, sq.GtOrEq{"entry_date": *filter.Since})
	}
	return where
}

func buildSelectEntriesQuery(ctx context.Context, filter models.EntryFilter) (string, []any, error) {
	builder := psql.Select(ledgerColumns...).
		From(ledgerTable).
		Where(ledgerWhere(filter)).
		OrderBy("entry_date DESC", "id DESC")

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSumEntriesQuery(ctx context.Context, filter models.EntryFilter) (string, []any, error) {
	query, args, err := psql.Select("COALESCE(SUM(amount), 0)").
		From(ledgerTable).
		Where(ledgerWhere(filter)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertEntryQuery(ctx context.Context, entry models.Entry) (string, []any, error) {
	query, args, err := psql.Insert(ledgerTable).
		Columns("user_id", "kind", "label", "amount", "entry_date", "icon").
		Values(entry.UserID, string(entry.Kind), entry.Label, entry.Amount, entry.Date, entry.Icon).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteEntryQuery(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) (string, []any, error) {
	query, args, err := psql.Delete(ledgerTable).
		Where(sq.Eq{"id": entryID, "user_id": userID, "kind": string(kind)}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
