package customers

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
	List(ctx context.Context, f shared.ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	NameByID(ctx context.Context, id uuid.UUID) (*string, error)
	Create(ctx context.Context, c Customer) (uuid.UUID, error)
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

const customerColumns = `id, name, email, phone, address, city, npwp,
	is_delete, deleted_at, deleted_by, created_by, created_at, updated_by, updated_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.NPWP,
		&c.IsDelete, &c.DeletedAt, &c.DeletedBy,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedBy, &c.UpdatedAt,
	)
	return c, err
}

var sortColumns = map[string]string{
	"name":       "name",
	"city":       "city",
	"created_at": "created_at",
}

func (r *repository) List(ctx context.Context, f shared.ListFilters) ([]Customer, int, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE is_delete = FALSE`
	countQuery := `SELECT COUNT(*) FROM customers WHERE is_delete = FALSE`
	args := []any{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		cond := ` AND (name ILIKE $` + n + ` OR email ILIKE $` + n + ` OR city ILIKE $` + n + `)`
		query += cond
		countQuery += cond
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
	}

	query += ` ORDER BY ` + shared.SortOrder(f.SortBy, f.SortDir, "name ASC", sortColumns)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, f.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND is_delete = FALSE`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// NameByID returns the display name of a live customer, nil when no such
// customer exists.
func (r *repository) NameByID(ctx context.Context, id uuid.UUID) (*string, error) {
	var name string
	err := r.db.QueryRow(ctx,
		`SELECT name FROM customers WHERE id = $1 AND is_delete = FALSE`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func (r *repository) Create(ctx context.Context, c Customer) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, email, phone, address, city, npwp, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		id, c.Name, c.Email, c.Phone, c.Address, c.City, c.NPWP, c.CreatedBy,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

var updatableColumns = []string{
	"name", "email", "phone", "address", "city", "npwp", "updated_by",
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
	query := `UPDATE customers SET ` + setClauses + `updated_at = NOW() WHERE id = $` +
		strconv.Itoa(len(args)) + ` AND is_delete = FALSE`
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 AND is_delete = FALSE`, id, actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET is_delete = FALSE, deleted_at = NULL, deleted_by = NULL
		WHERE id = $1 AND is_delete = TRUE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
