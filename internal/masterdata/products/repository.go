package products

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
	List(ctx context.Context, f shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	CodeTaken(ctx context.Context, code string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, p Product) (uuid.UUID, error)
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

const productColumns = `id, code, name, segment, model, engine, wheel_count, volume, horsepower, market_price, image, is_delete, deleted_at, deleted_by, created_by, created_at, updated_by, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Segment, &p.Model, &p.Engine,
		&p.WheelCount, &p.Volume, &p.Horsepower, &p.MarketPrice, &p.Image,
		&p.IsDelete, &p.DeletedAt, &p.DeletedBy,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedBy, &p.UpdatedAt,
	)
	return p, err
}

var sortColumns = map[string]string{
	"code":         "code",
	"name":         "name",
	"segment":      "segment",
	"market_price": "market_price",
	"created_at":   "created_at",
}

func (r *repository) List(ctx context.Context, f shared.ListFilters) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM componen_products WHERE is_delete = FALSE`
	countQuery := `SELECT COUNT(*) FROM componen_products WHERE is_delete = FALSE`
	args := []any{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		cond := ` AND (code ILIKE $` + n + ` OR name ILIKE $` + n + ` OR segment ILIKE $` + n + ` OR model ILIKE $` + n + `)`
		query += cond
		countQuery += cond
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
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
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM componen_products WHERE id = $1 AND is_delete = FALSE`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CodeTaken reports whether a non-deleted product other than exclude already
// uses the code. Pass uuid.Nil to check against all rows.
func (r *repository) CodeTaken(ctx context.Context, code string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM componen_products WHERE code = $1 AND id <> $2 AND is_delete = FALSE)`,
		code, exclude).Scan(&taken)
	return taken, err
}

func (r *repository) Create(ctx context.Context, p Product) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO componen_products (
			id, code, name, segment, model, engine, wheel_count, volume,
			horsepower, market_price, image, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())`,
		id, p.Code, p.Name, p.Segment, p.Model, p.Engine, p.WheelCount,
		p.Volume, p.Horsepower, p.MarketPrice, p.Image, p.CreatedBy,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

var updatableColumns = []string{
	"code", "name", "segment", "model", "engine", "wheel_count",
	"volume", "horsepower", "market_price", "image", "updated_by",
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
	query := `UPDATE componen_products SET ` + setClauses + `updated_at = NOW() WHERE id = $` +
		strconv.Itoa(len(args)) + ` AND is_delete = FALSE`
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE componen_products
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 AND is_delete = FALSE`, id, actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE componen_products
		SET is_delete = FALSE, deleted_at = NULL, deleted_by = NULL
		WHERE id = $1 AND is_delete = TRUE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
