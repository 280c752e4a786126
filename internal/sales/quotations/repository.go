package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iec-msi/quotation-backend/internal/platform/db"
	"github.com/iec-msi/quotation-backend/internal/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Quotation, error)
	List(ctx context.Context, f shared.ListFilters) ([]Quotation, int, error)
	Create(ctx context.Context, q Quotation) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error)
	Remove(ctx context.Context, id, actor uuid.UUID) (bool, error)
	Restore(ctx context.Context, id uuid.UUID) (bool, error)
	NextNumber(ctx context.Context, at time.Time) (string, error)

	InsertItems(ctx context.Context, quotationID uuid.UUID, items []Item, actor uuid.UUID) error
	ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []Item, actor uuid.UUID) error
	ItemsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]ItemWithProduct, error)

	InsertAccessories(ctx context.Context, quotationID uuid.UUID, accessories []ItemAccessory, actor uuid.UUID) error
	ReplaceAccessories(ctx context.Context, quotationID uuid.UUID, accessories []ItemAccessory, actor uuid.UUID) error
	AccessoriesByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]AccessoryWithDetails, error)

	InsertSpecifications(ctx context.Context, quotationID uuid.UUID, specs []Specification, actor uuid.UUID) error
	ReplaceSpecifications(ctx context.Context, quotationID uuid.UUID, specs []Specification, actor uuid.UUID) error
	SpecificationsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]Specification, error)

	LiveComponenProductIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	LiveAccessoryIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db      dbtx
	pool    *pgxpool.Pool
	orgCode string
}

func NewRepository(pool *pgxpool.Pool, orgCode string) Repository {
	return &repository{db: pool, pool: pool, orgCode: orgCode}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		repoTx := &repository{db: tx, pool: r.pool, orgCode: r.orgCode}
		return fn(ctx, repoTx)
	})
}

const quotationColumns = `id, manage_quotation_no, customer_id, sales_employee_id,
	manage_quotation_date, validity_date, grand_total, tax, delivery_fee,
	other_charges, payment_percentage, payment_nominal, grand_total_before,
	mutation_type, mutation_nominal, description, shipping_terms,
	bank_name, bank_account_name, bank_account_no, status, properties,
	is_delete, deleted_at, deleted_by, created_by, created_at, updated_by, updated_at`

func scanQuotation(row pgx.Row) (Quotation, error) {
	var q Quotation
	var properties []byte
	err := row.Scan(
		&q.ID, &q.ManageQuotationNo, &q.CustomerID, &q.SalesEmployeeID,
		&q.QuotationDate, &q.ValidityDate, &q.GrandTotal, &q.Tax, &q.DeliveryFee,
		&q.OtherCharges, &q.PaymentPercentage, &q.PaymentNominal, &q.GrandTotalBefore,
		&q.MutationType, &q.MutationNominal, &q.Description, &q.ShippingTerms,
		&q.BankName, &q.BankAccountName, &q.BankAccountNo, &q.Status, &properties,
		&q.IsDelete, &q.DeletedAt, &q.DeletedBy, &q.CreatedBy, &q.CreatedAt, &q.UpdatedBy, &q.UpdatedAt,
	)
	if err != nil {
		return Quotation{}, err
	}
	if len(properties) > 0 {
		if err := json.Unmarshal(properties, &q.Properties); err != nil {
			return Quotation{}, fmt.Errorf("quotations: decode properties: %w", err)
		}
	}
	return q, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM manage_quotations WHERE id = $1 AND is_delete = FALSE`
	q, err := scanQuotation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) List(ctx context.Context, f shared.ListFilters) ([]Quotation, int, error) {
	where := ` WHERE is_delete = FALSE`
	args := []any{}
	argCount := 0

	if f.Search != "" {
		argCount++
		placeholder := "$" + strconv.Itoa(argCount)
		where += ` AND (manage_quotation_no ILIKE ` + placeholder +
			` OR customer_id::text ILIKE ` + placeholder +
			` OR sales_employee_id::text ILIKE ` + placeholder + `)`
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM manage_quotations`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := shared.SortOrder(f.SortBy, f.SortDir, "created_at DESC", map[string]string{
		"manage_quotation_no":   "manage_quotation_no",
		"manage_quotation_date": "manage_quotation_date",
		"validity_date":         "validity_date",
		"grand_total":           "grand_total",
		"status":                "status",
		"created_at":            "created_at",
		"updated_at":            "updated_at",
	})

	query := `SELECT ` + quotationColumns + ` FROM manage_quotations` + where + ` ORDER BY ` + order
	if f.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, f.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, f.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quotations []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		quotations = append(quotations, q)
	}
	return quotations, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, q Quotation) (uuid.UUID, error) {
	properties, err := json.Marshal(q.Properties)
	if err != nil {
		return uuid.Nil, fmt.Errorf("quotations: encode properties: %w", err)
	}

	id := uuid.New()
	_, err = r.db.Exec(ctx, `
		INSERT INTO manage_quotations (
			id, manage_quotation_no, customer_id, sales_employee_id,
			manage_quotation_date, validity_date, grand_total, tax, delivery_fee,
			other_charges, payment_percentage, payment_nominal, grand_total_before,
			mutation_type, mutation_nominal, description, shipping_terms,
			bank_name, bank_account_name, bank_account_no, status, properties,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())`,
		id, q.ManageQuotationNo, q.CustomerID, q.SalesEmployeeID,
		q.QuotationDate, q.ValidityDate, q.GrandTotal, q.Tax, q.DeliveryFee,
		q.OtherCharges, q.PaymentPercentage, q.PaymentNominal, q.GrandTotalBefore,
		q.MutationType, q.MutationNominal, q.Description, q.ShippingTerms,
		q.BankName, q.BankAccountName, q.BankAccountNo, q.Status, properties,
		q.CreatedBy,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// updatableColumns is the allow-list for partial updates. The quotation
// number is deliberately absent from public update paths; it only enters
// this map internally when a submit transition assigns it.
var updatableColumns = []string{
	"manage_quotation_no", "customer_id", "sales_employee_id",
	"manage_quotation_date", "validity_date", "grand_total", "tax",
	"delivery_fee", "other_charges", "payment_percentage", "payment_nominal",
	"grand_total_before", "mutation_type", "mutation_nominal", "description",
	"shipping_terms", "bank_name", "bank_account_name", "bank_account_no",
	"status", "properties", "updated_by",
}

// Update applies a partial update. Returns false when no non-deleted row
// matched or no recognized fields were provided; both are no-op signals,
// not errors.
func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	query := `UPDATE manage_quotations SET updated_at = NOW()`
	var args []any
	argPos := 0

	for _, col := range updatableColumns {
		v, ok := updates[col]
		if !ok {
			continue
		}
		if col == "properties" {
			data, err := json.Marshal(v)
			if err != nil {
				return false, fmt.Errorf("quotations: encode properties: %w", err)
			}
			v = data
		}
		argPos++
		query += `, ` + col + ` = $` + strconv.Itoa(argPos)
		args = append(args, v)
	}
	if argPos == 0 {
		return false, nil
	}

	argPos++
	query += ` WHERE id = $` + strconv.Itoa(argPos) + ` AND is_delete = FALSE`
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE manage_quotations
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE id = $1 AND is_delete = FALSE`, id, actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE manage_quotations
		SET is_delete = FALSE, deleted_at = NULL, deleted_by = NULL, updated_at = NOW()
		WHERE id = $1 AND is_delete = TRUE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// NextNumber produces the next sequence for the calendar year of at. Must
// run inside a transaction: the advisory lock is transaction-scoped and
// serializes concurrent submissions racing for the same year.
func (r *repository) NextNumber(ctx context.Context, at time.Time) (string, error) {
	year := at.Year()
	lockKey := fmt.Sprintf("manage_quotation_no:%d", year)
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return "", fmt.Errorf("quotations: acquire number lock: %w", err)
	}

	// Numeric comparison of the sequence prefix; "010" sorts after "9".
	var last int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(NULLIF(split_part(manage_quotation_no, '/', 1), '')::int), 0)
		FROM manage_quotations
		WHERE is_delete = FALSE AND manage_quotation_no LIKE '%/' || $1 || '/' || $2`,
		r.orgCode, strconv.Itoa(year)).Scan(&last)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%03d/%s/%04d", last+1, r.orgCode, year), nil
}

func (r *repository) InsertItems(ctx context.Context, quotationID uuid.UUID, items []Item, actor uuid.UUID) error {
	for _, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		_, err := r.db.Exec(ctx, `
			INSERT INTO manage_quotation_items (
				id, manage_quotation_id, componen_product_id, quantity,
				unit_price, total_price, description, created_by, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
			uuid.New(), quotationID, item.ComponenProductID, item.Quantity,
			item.UnitPrice, item.TotalPrice, item.Description, actor,
		)
		if err != nil {
			return fmt.Errorf("quotations: insert item: %w", err)
		}
	}
	return nil
}

func (r *repository) ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []Item, actor uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE manage_quotation_items
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE manage_quotation_id = $1 AND is_delete = FALSE`, quotationID, actor)
	if err != nil {
		return fmt.Errorf("quotations: clear items: %w", err)
	}
	return r.InsertItems(ctx, quotationID, items, actor)
}

const itemsWithProductQuery = `
	SELECT i.id, i.manage_quotation_id, i.componen_product_id, i.quantity,
	       i.unit_price, i.total_price, i.description, i.created_at,
	       p.code, p.segment, p.model, p.engine, p.wheel_count, p.volume,
	       p.horsepower, p.market_price, p.name, p.image
	FROM manage_quotation_items i
	LEFT JOIN componen_products p ON p.id = i.componen_product_id AND p.is_delete = FALSE
	WHERE i.manage_quotation_id = $1 AND i.is_delete = FALSE
	ORDER BY i.created_at ASC`

func (r *repository) ItemsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]ItemWithProduct, error) {
	rows, err := r.db.Query(ctx, itemsWithProductQuery, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ItemWithProduct
	for rows.Next() {
		var it ItemWithProduct
		err := rows.Scan(
			&it.ID, &it.QuotationID, &it.ComponenProductID, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &it.Description, &it.CreatedAt,
			&it.ProductCode, &it.Segment, &it.Model, &it.Engine, &it.WheelCount,
			&it.Volume, &it.Horsepower, &it.MarketPrice, &it.ProductName, &it.ProductImage,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) InsertAccessories(ctx context.Context, quotationID uuid.UUID, accessories []ItemAccessory, actor uuid.UUID) error {
	for _, acc := range accessories {
		if acc.Quantity < 1 {
			acc.Quantity = 1
		}
		_, err := r.db.Exec(ctx, `
			INSERT INTO manage_quotation_accessories (
				id, manage_quotation_id, manage_quotation_item_id, accessory_id,
				quantity, description, created_by, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
			uuid.New(), quotationID, acc.ItemID, acc.AccessoryID,
			acc.Quantity, acc.Description, actor,
		)
		if err != nil {
			return fmt.Errorf("quotations: insert accessory: %w", err)
		}
	}
	return nil
}

func (r *repository) ReplaceAccessories(ctx context.Context, quotationID uuid.UUID, accessories []ItemAccessory, actor uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE manage_quotation_accessories
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE manage_quotation_id = $1 AND is_delete = FALSE`, quotationID, actor)
	if err != nil {
		return fmt.Errorf("quotations: clear accessories: %w", err)
	}
	return r.InsertAccessories(ctx, quotationID, accessories, actor)
}

func (r *repository) AccessoriesByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]AccessoryWithDetails, error) {
	rows, err := r.db.Query(ctx, `
		SELECT qa.id, qa.manage_quotation_id, qa.manage_quotation_item_id, qa.accessory_id,
		       qa.quantity, qa.description, qa.created_at,
		       a.name, a.part_number, a.price
		FROM manage_quotation_accessories qa
		LEFT JOIN accessories a ON a.id = qa.accessory_id AND a.is_delete = FALSE
		WHERE qa.manage_quotation_id = $1 AND qa.is_delete = FALSE
		ORDER BY qa.created_at ASC`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accessories []AccessoryWithDetails
	for rows.Next() {
		var acc AccessoryWithDetails
		err := rows.Scan(
			&acc.ID, &acc.QuotationID, &acc.ItemID, &acc.AccessoryID,
			&acc.Quantity, &acc.Description, &acc.CreatedAt,
			&acc.AccessoryName, &acc.PartNumber, &acc.AccessoryPrice,
		)
		if err != nil {
			return nil, err
		}
		accessories = append(accessories, acc)
	}
	return accessories, rows.Err()
}

func (r *repository) InsertSpecifications(ctx context.Context, quotationID uuid.UUID, specs []Specification, actor uuid.UUID) error {
	for _, spec := range specs {
		_, err := r.db.Exec(ctx, `
			INSERT INTO manage_quotation_specifications (
				id, manage_quotation_id, componen_product_id, label, value,
				created_by, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
			uuid.New(), quotationID, spec.ComponenProductID, spec.Label, spec.Value, actor,
		)
		if err != nil {
			return fmt.Errorf("quotations: insert specification: %w", err)
		}
	}
	return nil
}

func (r *repository) ReplaceSpecifications(ctx context.Context, quotationID uuid.UUID, specs []Specification, actor uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE manage_quotation_specifications
		SET is_delete = TRUE, deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE manage_quotation_id = $1 AND is_delete = FALSE`, quotationID, actor)
	if err != nil {
		return fmt.Errorf("quotations: clear specifications: %w", err)
	}
	return r.InsertSpecifications(ctx, quotationID, specs, actor)
}

func (r *repository) SpecificationsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]Specification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, manage_quotation_id, componen_product_id, label, value, created_at
		FROM manage_quotation_specifications
		WHERE manage_quotation_id = $1 AND is_delete = FALSE
		ORDER BY created_at ASC`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []Specification
	for rows.Next() {
		var s Specification
		if err := rows.Scan(&s.ID, &s.QuotationID, &s.ComponenProductID, &s.Label, &s.Value, &s.CreatedAt); err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, rows.Err()
}

func (r *repository) LiveComponenProductIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.liveIDs(ctx, `SELECT id FROM componen_products WHERE id = ANY($1) AND is_delete = FALSE`, ids)
}

func (r *repository) LiveAccessoryIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.liveIDs(ctx, `SELECT id FROM accessories WHERE id = ANY($1) AND is_delete = FALSE`, ids)
}

func (r *repository) liveIDs(ctx context.Context, query string, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	live := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return live, nil
	}
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		live[id] = true
	}
	return live, rows.Err()
}
