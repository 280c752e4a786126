package bankaccounts

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

type Repository interface {
	List(ctx context.Context, f shared.ListFilters) ([]BankAccount, int, error)
	Get(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	Create(ctx context.Context, b BankAccount) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error)
	Remove(ctx context.Context, id, actor uuid.UUID) (bool, error)
	Restore(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const bankAccountColumns = `id, bank_name, account_name, account_no, branch, description,
	is_delete, deleted_at, deleted_by, created_by, created_at, updated_by, updated_at`

func scanBankAccount(row pgx.Row) (BankAccount, error) {
	var b BankAccount
	err := row.Scan(
		&b.ID, &b.BankName, &b.AccountName, &b.AccountNo, &b.Branch, &b.Description,
		&b.IsDelete, &b.DeletedAt, &b.DeletedBy,
		&b.CreatedBy, &b.CreatedAt, &b.UpdatedBy, &b.UpdatedAt,
	)
	return b, err
}

var sortColumns = map[string]string{
	"bank_name":    "bank_name",
	"account_name": "account_name",
	"created_at":   "created_at",
}

func (r *repository) List(ctx context.Context, f shared.ListFilters) ([]BankAccount, int, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE is_delete = FALSE`
	countQuery := `SELECT COUNT(*) FROM bank_accounts WHERE is_delete = FALSE`
	args := []any{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		cond := ` AND (bank_name ILIKE $` + n + ` OR account_name ILIKE $` + n + ` OR account_no ILIKE $` + n + `)`
		query += cond
		countQuery += cond
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("bankaccounts: count: %w", err)
	}

	query += ` ORDER BY ` + shared.SortOrder(f.SortBy, f.SortDir, "bank_name ASC", sortColumns)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, f.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("bankaccounts: list: %w", err)
	}
	defer rows.Close()

	var accounts []BankAccount
	for rows.Next() {
		b, err := scanBankAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, b)
	}
	return accounts, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*BankAccount, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1 AND is_delete = FALSE`, id)
	b, err := scanBankAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Create(ctx context.Context, b BankAccount) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO bank_accounts (id, bank_name, account_name, account_no, branch, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		id, b.BankName, b.AccountName, b.AccountNo, b.Branch, b.Description, b.CreatedBy,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

var updatableColumns = []string{
	"bank_name", "account_name", "account_no", "branch", "description", "updated_by",
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	setClauses := ""
	args := []any{}
	for _, col := range updatableColumns {
		v, ok := updates[col]
		if !ok {
			continue
		}
		args = append(args, v)
		setClauses += col + ` = $` + strconv.Itoa(len(args)) + `, `
	}
	if len(args) == 0 {
		return false, nil
	}

	args = append(args, id)
	query := `UPDATE bank_accounts SET ` + setClauses + `updated_at = NOW() WHERE id = $` +
		strconv.Itoa(len(args)) + ` AND is_delete = FALSE`
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bank_accounts
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 AND is_delete = FALSE`, id, actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bank_accounts
		SET is_delete = FALSE, deleted_at = NULL, deleted_by = NULL
		WHERE id = $1 AND is_delete = TRUE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
