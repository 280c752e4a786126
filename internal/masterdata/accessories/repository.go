package accessories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iec-msi/quotation-backend/internal/platform/db"
	"github.com/iec-msi/quotation-backend/internal/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, f shared.ListFilters) ([]Accessory, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Accessory, error)
	PartNumberTaken(ctx context.Context, partNumber string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, a Accessory) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error)
	Remove(ctx context.Context, id, actor uuid.UUID) (bool, error)
	Restore(ctx context.Context, id uuid.UUID) (bool, error)

	InsertIslandDetails(ctx context.Context, accessoryID uuid.UUID, details []IslandDetail) error
	ReplaceIslandDetails(ctx context.Context, accessoryID uuid.UUID, details []IslandDetail) error
	IslandDetailsByAccessoryID(ctx context.Context, accessoryID uuid.UUID) ([]IslandDetail, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const accessoryColumns = `id, name, part_number, price, description,
	is_delete, deleted_at, deleted_by, created_by, created_at, updated_by, updated_at`

func scanAccessory(row pgx.Row) (Accessory, error) {
	var a Accessory
	err := row.Scan(
		&a.ID, &a.Name, &a.PartNumber, &a.Price, &a.Description,
		&a.IsDelete, &a.DeletedAt, &a.DeletedBy,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedBy, &a.UpdatedAt,
	)
	return a, err
}

var sortColumns = map[string]string{
	"name":        "name",
	"part_number": "part_number",
	"price":       "price",
	"created_at":  "created_at",
}

func (r *repository) List(ctx context.Context, f shared.ListFilters) ([]Accessory, int, error) {
	query := `SELECT ` + accessoryColumns + ` FROM accessories WHERE is_delete = FALSE`
	countQuery := `SELECT COUNT(*) FROM accessories WHERE is_delete = FALSE`
	args := []any{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		cond := ` AND (name ILIKE $` + n + ` OR part_number ILIKE $` + n + `)`
		query += cond
		countQuery += cond
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("accessories: count: %w", err)
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
		return nil, 0, fmt.Errorf("accessories: list: %w", err)
	}
	defer rows.Close()

	var accessories []Accessory
	for rows.Next() {
		a, err := scanAccessory(rows)
		if err != nil {
			return nil, 0, err
		}
		accessories = append(accessories, a)
	}
	return accessories, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Accessory, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+accessoryColumns+` FROM accessories WHERE id = $1 AND is_delete = FALSE`, id)
	a, err := scanAccessory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) PartNumberTaken(ctx context.Context, partNumber string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accessories WHERE part_number = $1 AND id <> $2 AND is_delete = FALSE)`,
		partNumber, exclude).Scan(&taken)
	return taken, err
}

func (r *repository) Create(ctx context.Context, a Accessory) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO accessories (id, name, part_number, price, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		id, a.Name, a.PartNumber, a.Price, a.Description, a.CreatedBy,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

var updatableColumns = []string{"name", "part_number", "price", "description", "updated_by"}

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
	query := `UPDATE accessories SET ` + setClauses + `updated_at = NOW() WHERE id = $` +
		strconv.Itoa(len(args)) + ` AND is_delete = FALSE`
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accessories
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 AND is_delete = FALSE`, id, actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accessories
		SET is_delete = FALSE, deleted_at = NULL, deleted_by = NULL
		WHERE id = $1 AND is_delete = TRUE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) InsertIslandDetails(ctx context.Context, accessoryID uuid.UUID, details []IslandDetail) error {
	for _, d := range details {
		_, err := r.db.Exec(ctx, `
			INSERT INTO accessories_island_details (id, accessory_id, island, quantity, description, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())`,
			uuid.New(), accessoryID, d.Island, d.Quantity, d.Description,
		)
		if err != nil {
			return fmt.Errorf("accessories: insert island detail: %w", err)
		}
	}
	return nil
}

// ReplaceIslandDetails swaps the whole collection: existing rows are removed
// and the new set inserted. Callers run it inside WithTx.
func (r *repository) ReplaceIslandDetails(ctx context.Context, accessoryID uuid.UUID, details []IslandDetail) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM accessories_island_details WHERE accessory_id = $1`, accessoryID); err != nil {
		return fmt.Errorf("accessories: clear island details: %w", err)
	}
	return r.InsertIslandDetails(ctx, accessoryID, details)
}

func (r *repository) IslandDetailsByAccessoryID(ctx context.Context, accessoryID uuid.UUID) ([]IslandDetail, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, accessory_id, island, quantity, description, created_at
		FROM accessories_island_details
		WHERE accessory_id = $1
		ORDER BY created_at ASC`, accessoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []IslandDetail
	for rows.Next() {
		var d IslandDetail
		if err := rows.Scan(&d.ID, &d.AccessoryID, &d.Island, &d.Quantity, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
