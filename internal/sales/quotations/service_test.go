package quotations

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockProduct struct {
	name    string
	code    string
	deleted bool
}

type mockRepository struct {
	mu   sync.Mutex
	txMu sync.Mutex

	quotations map[uuid.UUID]*Quotation

	items        map[uuid.UUID][]Item
	deletedItems map[uuid.UUID][]Item

	accessories        map[uuid.UUID][]ItemAccessory
	deletedAccessories map[uuid.UUID][]ItemAccessory

	specifications map[uuid.UUID][]Specification

	products      map[uuid.UUID]*mockProduct
	accessoryRows map[uuid.UUID]bool

	// onGet, when set, runs at the start of every Get. Tests use it to
	// pin interleavings.
	onGet func()

	lastList shared.ListFilters
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quotations:         make(map[uuid.UUID]*Quotation),
		items:              make(map[uuid.UUID][]Item),
		deletedItems:       make(map[uuid.UUID][]Item),
		accessories:        make(map[uuid.UUID][]ItemAccessory),
		deletedAccessories: make(map[uuid.UUID][]ItemAccessory),
		specifications:     make(map[uuid.UUID][]Specification),
		products:           make(map[uuid.UUID]*mockProduct),
		accessoryRows:      make(map[uuid.UUID]bool),
	}
}

// WithTx serializes writers the way the advisory lock serializes concurrent
// submissions against the real database.
func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	if m.onGet != nil {
		m.onGet()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotations[id]
	if !ok || q.IsDelete {
		return nil, shared.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context, f shared.ListFilters) ([]Quotation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = f
	var result []Quotation
	for _, q := range m.quotations {
		if q.IsDelete {
			continue
		}
		if f.Search != "" {
			no := ""
			if q.ManageQuotationNo != nil {
				no = *q.ManageQuotationNo
			}
			if !strings.Contains(strings.ToLower(no), strings.ToLower(f.Search)) {
				continue
			}
		}
		result = append(result, *q)
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, q Quotation) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	m.quotations[q.ID] = &q
	return q.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotations[id]
	if !ok || q.IsDelete {
		return false, nil
	}
	if len(updates) == 0 {
		return false, nil
	}
	for col, v := range updates {
		switch col {
		case "manage_quotation_no":
			s := v.(string)
			q.ManageQuotationNo = &s
		case "customer_id":
			q.CustomerID = v.(*uuid.UUID)
		case "sales_employee_id":
			q.SalesEmployeeID = v.(*uuid.UUID)
		case "manage_quotation_date":
			q.QuotationDate = v.(*time.Time)
		case "validity_date":
			q.ValidityDate = v.(*time.Time)
		case "grand_total":
			q.GrandTotal = v.(*float64)
		case "tax":
			q.Tax = v.(*float64)
		case "delivery_fee":
			q.DeliveryFee = v.(*float64)
		case "other_charges":
			q.OtherCharges = v.(*float64)
		case "payment_percentage":
			q.PaymentPercentage = v.(*float64)
		case "payment_nominal":
			q.PaymentNominal = v.(*float64)
		case "grand_total_before":
			q.GrandTotalBefore = v.(*float64)
		case "mutation_type":
			q.MutationType = v.(*MutationType)
		case "mutation_nominal":
			q.MutationNominal = v.(*float64)
		case "description":
			q.Description = v.(*string)
		case "shipping_terms":
			q.ShippingTerms = v.(*string)
		case "bank_name":
			q.BankName = v.(*string)
		case "bank_account_name":
			q.BankAccountName = v.(*string)
		case "bank_account_no":
			q.BankAccountNo = v.(*string)
		case "status":
			q.Status = *v.(*Status)
		case "properties":
			q.Properties = v.(map[string]any)
		case "updated_by":
			actor := v.(uuid.UUID)
			q.UpdatedBy = &actor
		}
	}
	q.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockRepository) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotations[id]
	if !ok || q.IsDelete {
		return false, nil
	}
	now := time.Now()
	q.IsDelete = true
	q.DeletedAt = &now
	q.DeletedBy = &actor
	return true, nil
}

func (m *mockRepository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotations[id]
	if !ok || !q.IsDelete {
		return false, nil
	}
	q.IsDelete = false
	q.DeletedAt = nil
	q.DeletedBy = nil
	return true, nil
}

func (m *mockRepository) NextNumber(ctx context.Context, at time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	year := at.Year()
	suffix := fmt.Sprintf("/IEC-MSI/%04d", year)
	last := 0
	for _, q := range m.quotations {
		if q.IsDelete || q.ManageQuotationNo == nil || !strings.HasSuffix(*q.ManageQuotationNo, suffix) {
			continue
		}
		prefix := strings.SplitN(*q.ManageQuotationNo, "/", 2)[0]
		if n, err := strconv.Atoi(prefix); err == nil && n > last {
			last = n
		}
	}
	return fmt.Sprintf("%03d/IEC-MSI/%04d", last+1, year), nil
}

func (m *mockRepository) InsertItems(ctx context.Context, quotationID uuid.UUID, items []Item, actor uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		item.ID = uuid.New()
		item.QuotationID = quotationID
		item.CreatedAt = time.Now().Add(time.Duration(i) * time.Microsecond)
		m.items[quotationID] = append(m.items[quotationID], item)
	}
	return nil
}

func (m *mockRepository) ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []Item, actor uuid.UUID) error {
	m.mu.Lock()
	m.deletedItems[quotationID] = append(m.deletedItems[quotationID], m.items[quotationID]...)
	m.items[quotationID] = nil
	m.mu.Unlock()
	return m.InsertItems(ctx, quotationID, items, actor)
}

func (m *mockRepository) ItemsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]ItemWithProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []ItemWithProduct
	for _, item := range m.items[quotationID] {
		with := ItemWithProduct{Item: item}
		if item.ComponenProductID != nil {
			if p, ok := m.products[*item.ComponenProductID]; ok && !p.deleted {
				name, code := p.name, p.code
				with.ProductName = &name
				with.ProductCode = &code
			}
		}
		result = append(result, with)
	}
	return result, nil
}

func (m *mockRepository) InsertAccessories(ctx context.Context, quotationID uuid.UUID, accessories []ItemAccessory, actor uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range accessories {
		if acc.Quantity < 1 {
			acc.Quantity = 1
		}
		acc.ID = uuid.New()
		acc.QuotationID = quotationID
		acc.CreatedAt = time.Now()
		m.accessories[quotationID] = append(m.accessories[quotationID], acc)
	}
	return nil
}

func (m *mockRepository) ReplaceAccessories(ctx context.Context, quotationID uuid.UUID, accessories []ItemAccessory, actor uuid.UUID) error {
	m.mu.Lock()
	m.deletedAccessories[quotationID] = append(m.deletedAccessories[quotationID], m.accessories[quotationID]...)
	m.accessories[quotationID] = nil
	m.mu.Unlock()
	return m.InsertAccessories(ctx, quotationID, accessories, actor)
}

func (m *mockRepository) AccessoriesByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]AccessoryWithDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []AccessoryWithDetails
	for _, acc := range m.accessories[quotationID] {
		result = append(result, AccessoryWithDetails{ItemAccessory: acc})
	}
	return result, nil
}

func (m *mockRepository) InsertSpecifications(ctx context.Context, quotationID uuid.UUID, specs []Specification, actor uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, spec := range specs {
		spec.ID = uuid.New()
		spec.QuotationID = quotationID
		spec.CreatedAt = time.Now()
		m.specifications[quotationID] = append(m.specifications[quotationID], spec)
	}
	return nil
}

func (m *mockRepository) ReplaceSpecifications(ctx context.Context, quotationID uuid.UUID, specs []Specification, actor uuid.UUID) error {
	m.mu.Lock()
	m.specifications[quotationID] = nil
	m.mu.Unlock()
	return m.InsertSpecifications(ctx, quotationID, specs, actor)
}

func (m *mockRepository) SpecificationsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]Specification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Specification{}, m.specifications[quotationID]...), nil
}

func (m *mockRepository) LiveComponenProductIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if p, ok := m.products[id]; ok && !p.deleted {
			live[id] = true
		}
	}
	return live, nil
}

func (m *mockRepository) LiveAccessoryIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if m.accessoryRows[id] {
			live[id] = true
		}
	}
	return live, nil
}

func (m *mockRepository) addProduct(name, code string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.products[id] = &mockProduct{name: name, code: code}
	return id
}

func (m *mockRepository) softDeleteProduct(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id].deleted = true
}

// ============================================================================
// FIXTURES
// ============================================================================

type stubEmployees struct {
	names map[uuid.UUID]string
	down  bool
}

func (s *stubEmployees) EmployeeName(ctx context.Context, id uuid.UUID) (*string, error) {
	if s.down {
		return nil, nil
	}
	if name, ok := s.names[id]; ok {
		return &name, nil
	}
	return nil, nil
}

func newTestService(repo *mockRepository, employees EmployeeDirectory) *Service {
	composer := NewComposer(repo, nil, employees)
	return NewService(repo, NewValidator(repo), composer, nil, slog.Default())
}

func draftRequest() CreateQuotationRequest {
	return CreateQuotationRequest{Status: StatusDraft}
}

func ptr[T any](v T) *T { return &v }

var numberPattern = regexp.MustCompile(`^\d{3}/IEC-MSI/\d{4}$`)

// ============================================================================
// NUMBERING
// ============================================================================

func TestCreateDraftLeavesNumberUnassigned(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	detail, err := svc.Create(context.Background(), draftRequest(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, detail.ManageQuotationNo)
	assert.Equal(t, StatusDraft, detail.Status)
}

func TestSubmitTransitionAssignsNumber(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, draftRequest(), actor)
	require.NoError(t, err)
	require.Nil(t, created.ManageQuotationNo)

	updated, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{Status: ptr(StatusSubmit)}, actor)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.ManageQuotationNo)
	assert.Regexp(t, numberPattern, *updated.ManageQuotationNo)
	assert.Contains(t, *updated.ManageQuotationNo, strconv.Itoa(time.Now().Year()))
}

func TestSubmitNumbersAreSequential(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()
	year := time.Now().Year()

	first, err := svc.Create(ctx, CreateQuotationRequest{Status: StatusSubmit}, actor)
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateQuotationRequest{Status: StatusSubmit}, actor)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("001/IEC-MSI/%04d", year), *first.ManageQuotationNo)
	assert.Equal(t, fmt.Sprintf("002/IEC-MSI/%04d", year), *second.ManageQuotationNo)
}

func TestNumberSequenceComparesNumerically(t *testing.T) {
	repo := newMockRepository()
	year := time.Now().Year()
	// "010" must beat "009" even though "9" > "10" lexicographically.
	for _, no := range []string{fmt.Sprintf("009/IEC-MSI/%04d", year), fmt.Sprintf("010/IEC-MSI/%04d", year)} {
		n := no
		id := uuid.New()
		repo.quotations[id] = &Quotation{ID: id, ManageQuotationNo: &n, Status: StatusSubmit}
	}
	svc := newTestService(repo, nil)

	detail, err := svc.Create(context.Background(), CreateQuotationRequest{Status: StatusSubmit}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("011/IEC-MSI/%04d", year), *detail.ManageQuotationNo)
}

func TestNumberIsImmutableAcrossUpdates(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, CreateQuotationRequest{Status: StatusSubmit}, actor)
	require.NoError(t, err)
	assigned := *created.ManageQuotationNo

	updated, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{
		Description: ptr("revised terms"),
		Status:      ptr(StatusSubmit),
	}, actor)
	require.NoError(t, err)
	require.NotNil(t, updated.ManageQuotationNo)
	assert.Equal(t, assigned, *updated.ManageQuotationNo)
}

func TestConcurrentSubmitsOfSameDraftAssignOneNumber(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, draftRequest(), actor)
	require.NoError(t, err)

	// Hold both racers until each has read the draft while its number is
	// still unassigned, so both pass the fast-path check together.
	var arrivals int32
	gate := make(chan struct{})
	repo.onGet = func() {
		if atomic.AddInt32(&arrivals, 1) == 2 {
			close(gate)
		}
		<-gate
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{Status: ptr(StatusSubmit)}, actor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := repo.quotations[created.ID]
	require.NotNil(t, stored.ManageQuotationNo)
	assert.Equal(t, fmt.Sprintf("001/IEC-MSI/%04d", time.Now().Year()), *stored.ManageQuotationNo)
	assert.Equal(t, StatusSubmit, stored.Status)
}

func TestConcurrentSubmissionsGetUniqueNumbers(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	actor := uuid.New()

	const n = 10
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			detail, err := svc.Create(context.Background(), CreateQuotationRequest{Status: StatusSubmit}, actor)
			if !assert.NoError(t, err) {
				return
			}
			numbers <- *detail.ManageQuotationNo
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for no := range numbers {
		assert.Regexp(t, numberPattern, no)
		assert.False(t, seen[no], "duplicate number %s", no)
		seen[no] = true
	}
	assert.Len(t, seen, n)
}

// ============================================================================
// CHILD COLLECTIONS
// ============================================================================

func TestReplaceItemsSwapsWholeCollection(t *testing.T) {
	repo := newMockRepository()
	productID := repo.addProduct("Truck 4x2", "TRK-001")
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, CreateQuotationRequest{
		Status: StatusDraft,
		Items: []ItemRequest{
			{ComponenProductID: &productID, Quantity: ptr(2), UnitPrice: 100},
			{ComponenProductID: &productID, Quantity: ptr(1), UnitPrice: 50},
			{UnitPrice: 10, Description: ptr("freight")},
		},
	}, actor)
	require.NoError(t, err)
	require.Len(t, created.Items, 3)

	updated, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{
		Items: &[]ItemRequest{{ComponenProductID: &productID, Quantity: ptr(5), UnitPrice: 100}},
	}, actor)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
	assert.Equal(t, float64(500), updated.Items[0].TotalPrice)

	// The original rows are soft-deleted, not gone.
	assert.Len(t, repo.deletedItems[created.ID], 3)
}

func TestReplaceItemsIsIdempotentInEffect(t *testing.T) {
	repo := newMockRepository()
	productID := repo.addProduct("Truck 4x2", "TRK-001")
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, CreateQuotationRequest{Status: StatusDraft}, actor)
	require.NoError(t, err)

	replacement := []ItemRequest{
		{ComponenProductID: &productID, Quantity: ptr(3), UnitPrice: 200, Description: ptr("unit A")},
		{UnitPrice: 75},
	}

	first, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{Items: &replacement}, actor)
	require.NoError(t, err)
	second, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{Items: &replacement}, actor)
	require.NoError(t, err)

	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Quantity, second.Items[i].Quantity)
		assert.Equal(t, first.Items[i].UnitPrice, second.Items[i].UnitPrice)
		assert.Equal(t, first.Items[i].TotalPrice, second.Items[i].TotalPrice)
		assert.Equal(t, first.Items[i].ComponenProductID, second.Items[i].ComponenProductID)
		// Fresh row identities are acceptable.
	}
}

func TestItemQuantityDefaultsToOne(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	detail, err := svc.Create(context.Background(), CreateQuotationRequest{
		Status: StatusDraft,
		Items:  []ItemRequest{{UnitPrice: 30}},
	}, uuid.New())
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 1, detail.Items[0].Quantity)
	assert.Equal(t, float64(30), detail.Items[0].TotalPrice)
}

func TestSoftDeletedProductLeavesJoinFieldsNull(t *testing.T) {
	repo := newMockRepository()
	productID := repo.addProduct("Truck 4x2", "TRK-001")
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateQuotationRequest{
		Status: StatusDraft,
		Items:  []ItemRequest{{ComponenProductID: &productID, UnitPrice: 100}},
	}, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, created.Items[0].ProductName)

	repo.softDeleteProduct(productID)

	detail, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Nil(t, detail.Items[0].ProductName)
	assert.Nil(t, detail.Items[0].ProductCode)
	// The stored reference survives even though the join finds nothing.
	require.NotNil(t, detail.Items[0].ComponenProductID)
	assert.Equal(t, productID, *detail.Items[0].ComponenProductID)
}

// ============================================================================
// REFERENTIAL VALIDATION
// ============================================================================

func TestValidateComponenProductIDs(t *testing.T) {
	repo := newMockRepository()
	valid := repo.addProduct("Truck", "TRK-001")
	bogus := uuid.New()
	validator := NewValidator(repo)
	ctx := context.Background()

	result, err := validator.ValidateComponenProductIDs(ctx, []ItemRequest{
		{ComponenProductID: &valid},
		{ComponenProductID: &bogus},
	})
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, []uuid.UUID{bogus}, result.InvalidIDs)

	result, err = validator.ValidateComponenProductIDs(ctx, []ItemRequest{
		{UnitPrice: 10}, {UnitPrice: 20},
	})
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.InvalidIDs)
}

func TestCreateRejectsInvalidProductReference(t *testing.T) {
	repo := newMockRepository()
	bogus := uuid.New()
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), CreateQuotationRequest{
		Status: StatusDraft,
		Items:  []ItemRequest{{ComponenProductID: &bogus, UnitPrice: 10}},
	}, uuid.New())

	var refErr *shared.ReferentialError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "componen_product", refErr.Entity)
	assert.Equal(t, []uuid.UUID{bogus}, refErr.InvalidIDs)
	assert.Empty(t, repo.quotations, "nothing persisted on rejection")
}

func TestCreateRejectsDeletedAccessoryReference(t *testing.T) {
	repo := newMockRepository()
	gone := uuid.New() // never registered, behaves like soft-deleted
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), CreateQuotationRequest{
		Status:      StatusDraft,
		Accessories: []AccessoryRequest{{AccessoryID: &gone}},
	}, uuid.New())

	var refErr *shared.ReferentialError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "accessory", refErr.Entity)
}

// ============================================================================
// SOFT DELETE / RESTORE
// ============================================================================

func TestRemoveRestoreRoundTrip(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, CreateQuotationRequest{
		Status:      StatusDraft,
		Description: ptr("original"),
		GrandTotal:  ptr(1200.0),
	}, actor)
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, created.ID, actor)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	stored := repo.quotations[created.ID]
	assert.True(t, stored.IsDelete)
	assert.NotNil(t, stored.DeletedAt)
	require.NotNil(t, stored.DeletedBy)
	assert.Equal(t, actor, *stored.DeletedBy)

	restored, err := svc.Restore(ctx, created.ID, actor)
	require.NoError(t, err)
	assert.True(t, restored)

	detail, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsDelete)
	assert.Nil(t, detail.DeletedAt)
	assert.Nil(t, detail.DeletedBy)
	assert.Equal(t, "original", *detail.Description)
	assert.Equal(t, 1200.0, *detail.GrandTotal)
}

func TestRemoveMissingQuotationIsNoop(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)

	removed, err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, removed)
}

// ============================================================================
// PARTIAL UPDATE SEMANTICS
// ============================================================================

func TestUpdateTouchesOnlyPresentFields(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, CreateQuotationRequest{
		Status:        StatusDraft,
		Description:   ptr("keep me"),
		ShippingTerms: ptr("FOB Jakarta"),
		GrandTotal:    ptr(900.0),
	}, actor)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{
		GrandTotal: ptr(950.0),
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 950.0, *updated.GrandTotal)
	assert.Equal(t, "keep me", *updated.Description)
	assert.Equal(t, "FOB Jakarta", *updated.ShippingTerms)
}

func TestUpdateUnknownQuotationSignalsNoop(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)

	detail, err := svc.Update(context.Background(), uuid.New(), UpdateQuotationRequest{
		Description: ptr("anything"),
	}, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestUpdateWithoutFieldsSignalsNoop(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	actor := uuid.New()

	created, err := svc.Create(ctx, draftRequest(), actor)
	require.NoError(t, err)

	detail, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{}, actor)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestPaymentNominalDerivedFromPercentage(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	detail, err := svc.Create(context.Background(), CreateQuotationRequest{
		Status:            StatusDraft,
		GrandTotal:        ptr(2000.0),
		PaymentPercentage: ptr(25.0),
	}, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, detail.PaymentNominal)
	assert.Equal(t, 500.0, *detail.PaymentNominal)
}

// ============================================================================
// READ-SIDE COMPOSITION & DEGRADATION
// ============================================================================

func TestListEnrichesEmployeeNames(t *testing.T) {
	repo := newMockRepository()
	employeeID := uuid.New()
	employees := &stubEmployees{names: map[uuid.UUID]string{employeeID: "Andi Wijaya"}}
	svc := newTestService(repo, employees)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateQuotationRequest{
		Status:          StatusDraft,
		SalesEmployeeID: &employeeID,
	}, uuid.New())
	require.NoError(t, err)

	page, err := svc.List(ctx, shared.ListFilters{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].SalesEmployeeName)
	assert.Equal(t, "Andi Wijaya", *page.Items[0].SalesEmployeeName)
}

func TestListWithoutLimitUsesDefaultPageSize(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, draftRequest(), uuid.New())
	require.NoError(t, err)

	page, err := svc.List(ctx, shared.ListFilters{})
	require.NoError(t, err)
	// The repository must see the clamped filters, and the envelope must
	// report the page size actually applied.
	assert.Equal(t, shared.DefaultPerPage, repo.lastList.Limit)
	assert.Equal(t, 1, repo.lastList.Page)
	assert.Equal(t, shared.DefaultPerPage, page.Pagination.PerPage)
	assert.Equal(t, 1, page.Pagination.Page)
}

func TestListDegradesEnrichmentOnRemoteOutage(t *testing.T) {
	repo := newMockRepository()
	employeeID := uuid.New()
	svc := newTestService(repo, &stubEmployees{down: true})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateQuotationRequest{
			Status:          StatusDraft,
			SalesEmployeeID: &employeeID,
		}, uuid.New())
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, shared.ListFilters{Page: 1, Limit: 20})
	require.NoError(t, err)
	// Same row count as with the link up; only the enrichment is empty.
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Pagination.Total)
	for _, item := range page.Items {
		assert.Nil(t, item.SalesEmployeeName)
		assert.Equal(t, employeeID, *item.SalesEmployeeID)
	}
}
