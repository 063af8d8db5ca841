package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/aggregate"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/auth"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/config"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/idgen"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/logging"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
)

const testSecret = "test-secret"

type stubUserStore struct {
	createFn         func(ctx context.Context, in store.UserInput) (int64, error)
	getByUsernameFn  func(ctx context.Context, username string) (models.User, error)
	getByIDFn        func(ctx context.Context, id int64) (models.User, error)
	listFn           func(ctx context.Context) ([]models.User, error)
	updateFn         func(ctx context.Context, id int64, in store.UserInput) error
	updatePasswordFn func(ctx context.Context, id int64, passwordHash string) error
	deactivateFn     func(ctx context.Context, id int64) error
}

func (s stubUserStore) Create(ctx context.Context, in store.UserInput) (int64, error) {
	if s.createFn == nil {
		return 1, nil
	}
	return s.createFn(ctx, in)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByIDFn(ctx, id)
}

func (s stubUserStore) List(ctx context.Context) ([]models.User, error) {
	if s.listFn == nil {
		return []models.User{}, nil
	}
	return s.listFn(ctx)
}

func (s stubUserStore) Update(ctx context.Context, id int64, in store.UserInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, id, in)
}

func (s stubUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if s.updatePasswordFn == nil {
		return nil
	}
	return s.updatePasswordFn(ctx, id, passwordHash)
}

func (s stubUserStore) Deactivate(ctx context.Context, id int64) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, id)
}

type stubCollectionStore struct {
	insertFn    func(ctx context.Context, in store.CollectionInput) (int64, error)
	listFn      func(ctx context.Context) ([]models.Collection, error)
	getFn       func(ctx context.Context, id int64) (models.Collection, error)
	updateFn    func(ctx context.Context, id int64, in store.CollectionInput) error
	deleteFn    func(ctx context.Context, id int64) error
	dateRangeFn func(ctx context.Context, start, end models.Date) ([]models.Collection, error)
}

func (s stubCollectionStore) Insert(ctx context.Context, in store.CollectionInput) (int64, error) {
	if s.insertFn == nil {
		return 1, nil
	}
	return s.insertFn(ctx, in)
}

func (s stubCollectionStore) List(ctx context.Context) ([]models.Collection, error) {
	if s.listFn == nil {
		return []models.Collection{}, nil
	}
	return s.listFn(ctx)
}

func (s stubCollectionStore) Get(ctx context.Context, id int64) (models.Collection, error) {
	if s.getFn == nil {
		return models.Collection{}, store.ErrNotFound
	}
	return s.getFn(ctx, id)
}

func (s stubCollectionStore) Update(ctx context.Context, id int64, in store.CollectionInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, id, in)
}

func (s stubCollectionStore) Delete(ctx context.Context, id int64) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s stubCollectionStore) ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Collection, error) {
	if s.dateRangeFn == nil {
		return []models.Collection{}, nil
	}
	return s.dateRangeFn(ctx, start, end)
}

type stubDisbursementStore struct {
	insertFn    func(ctx context.Context, in store.DisbursementInput) (int64, error)
	dateRangeFn func(ctx context.Context, start, end models.Date) ([]models.Disbursement, error)
}

func (s stubDisbursementStore) Insert(ctx context.Context, in store.DisbursementInput) (int64, error) {
	if s.insertFn == nil {
		return 1, nil
	}
	return s.insertFn(ctx, in)
}

func (s stubDisbursementStore) List(context.Context) ([]models.Disbursement, error) {
	return []models.Disbursement{}, nil
}

func (s stubDisbursementStore) Get(context.Context, int64) (models.Disbursement, error) {
	return models.Disbursement{}, store.ErrNotFound
}

func (s stubDisbursementStore) Update(context.Context, int64, store.DisbursementInput) error {
	return nil
}

func (s stubDisbursementStore) Delete(context.Context, int64) error {
	return nil
}

func (s stubDisbursementStore) ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Disbursement, error) {
	if s.dateRangeFn == nil {
		return []models.Disbursement{}, nil
	}
	return s.dateRangeFn(ctx, start, end)
}

type stubDFURStore struct {
	insertFn func(ctx context.Context, in store.DFURInput) (int64, error)
}

func (s stubDFURStore) Insert(ctx context.Context, in store.DFURInput) (int64, error) {
	if s.insertFn == nil {
		return 1, nil
	}
	return s.insertFn(ctx, in)
}

func (s stubDFURStore) List(context.Context) ([]models.DFURProject, error) {
	return []models.DFURProject{}, nil
}

func (s stubDFURStore) Get(context.Context, int64) (models.DFURProject, error) {
	return models.DFURProject{}, store.ErrNotFound
}

func (s stubDFURStore) Update(context.Context, int64, store.DFURInput) error {
	return nil
}

func (s stubDFURStore) Delete(context.Context, int64) error {
	return nil
}

func (s stubDFURStore) ListByDateRange(context.Context, models.Date, models.Date) ([]models.DFURProject, error) {
	return []models.DFURProject{}, nil
}

type stubBudgetStore struct {
	listEntriesFn      func(ctx context.Context, year int) ([]models.BudgetEntry, error)
	createAllocationFn func(ctx context.Context, year int, category string, amount decimal.Decimal) (int64, error)
}

func (s stubBudgetStore) InsertEntry(context.Context, store.BudgetEntryInput) (int64, error) {
	return 1, nil
}

func (s stubBudgetStore) ListEntriesByYear(ctx context.Context, year int) ([]models.BudgetEntry, error) {
	if s.listEntriesFn == nil {
		return []models.BudgetEntry{}, nil
	}
	return s.listEntriesFn(ctx, year)
}

func (s stubBudgetStore) UpdateEntry(context.Context, int64, store.BudgetEntryInput) error {
	return nil
}

func (s stubBudgetStore) DeleteEntry(context.Context, int64) error {
	return nil
}

func (s stubBudgetStore) ListEntriesByDateRange(context.Context, models.Date, models.Date) ([]models.BudgetEntry, error) {
	return []models.BudgetEntry{}, nil
}

func (s stubBudgetStore) CreateAllocation(ctx context.Context, year int, category string, amount decimal.Decimal) (int64, error) {
	if s.createAllocationFn == nil {
		return 1, nil
	}
	return s.createAllocationFn(ctx, year, category, amount)
}

func (s stubBudgetStore) ListAllocations(context.Context, int) ([]models.BudgetAllocation, error) {
	return []models.BudgetAllocation{}, nil
}

type stubCommentStore struct {
	insertFn func(ctx context.Context, name, email, comment string) (int64, error)
	listFn   func(ctx context.Context, limit int) ([]models.ViewerComment, error)
}

func (s stubCommentStore) List(ctx context.Context, limit int) ([]models.ViewerComment, error) {
	if s.listFn == nil {
		return []models.ViewerComment{}, nil
	}
	return s.listFn(ctx, limit)
}

func (s stubCommentStore) Insert(ctx context.Context, name, email, comment string) (int64, error) {
	if s.insertFn == nil {
		return 1, nil
	}
	return s.insertFn(ctx, name, email, comment)
}

type stubAuditStore struct {
	listFn func(ctx context.Context, kind string, entityID int64) ([]store.AuditEntry, error)
}

func (s stubAuditStore) List(ctx context.Context, kind string, entityID int64) ([]store.AuditEntry, error) {
	if s.listFn == nil {
		return []store.AuditEntry{}, nil
	}
	return s.listFn(ctx, kind, entityID)
}

type stubReviewEngine struct {
	flagFn    func(ctx context.Context, req review.FlagRequest) error
	approveFn func(ctx context.Context, req review.ApproveRequest) error
}

func (s stubReviewEngine) Flag(ctx context.Context, req review.FlagRequest) error {
	if s.flagFn == nil {
		return nil
	}
	return s.flagFn(ctx, req)
}

func (s stubReviewEngine) Approve(ctx context.Context, req review.ApproveRequest) error {
	if s.approveFn == nil {
		return nil
	}
	return s.approveFn(ctx, req)
}

type stubAggregator struct {
	totalCollectionsFn func(ctx context.Context) (decimal.Decimal, error)
	totalBudgetFn      func(ctx context.Context, year int) (decimal.Decimal, error)
	dashboardFn        func(ctx context.Context, year int) (aggregate.Dashboard, error)
}

func (s stubAggregator) TotalCollections(ctx context.Context) (decimal.Decimal, error) {
	if s.totalCollectionsFn == nil {
		return decimal.Zero, nil
	}
	return s.totalCollectionsFn(ctx)
}

func (s stubAggregator) TotalDisbursements(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s stubAggregator) TotalBudgetAllocation(ctx context.Context, year int) (decimal.Decimal, error) {
	if s.totalBudgetFn == nil {
		return decimal.Zero, nil
	}
	return s.totalBudgetFn(ctx, year)
}

func (s stubAggregator) DFURSummary(context.Context) (aggregate.DFURSummary, error) {
	return aggregate.DFURSummary{TotalCostApproved: decimal.Zero}, nil
}

func (s stubAggregator) Dashboard(ctx context.Context, year int) (aggregate.Dashboard, error) {
	if s.dashboardFn == nil {
		return aggregate.Dashboard{Year: year}, nil
	}
	return s.dashboardFn(ctx, year)
}

type stubIDGenerator struct {
	nextFn func(ctx context.Context, kind string) (idgen.IDs, error)
}

func (s stubIDGenerator) Next(ctx context.Context, kind string) (idgen.IDs, error) {
	if s.nextFn == nil {
		return idgen.IDs{}, idgen.ErrUnknownKind
	}
	return s.nextFn(ctx, kind)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:             "test",
		JWTSecret:          testSecret,
		TokenTTL:           time.Hour,
		AllowedOrigins:     []string{"http://localhost:5173"},
		QueryTimeout:       5 * time.Second,
		LoginRatePerMinute: 100,
	}
}

// newTestHandler fills every dependency the caller left empty with a
// default stub.
func newTestHandler(deps Deps) *Handler {
	if deps.Users == nil {
		deps.Users = stubUserStore{}
	}
	if deps.Collections == nil {
		deps.Collections = stubCollectionStore{}
	}
	if deps.Disbursements == nil {
		deps.Disbursements = stubDisbursementStore{}
	}
	if deps.DFUR == nil {
		deps.DFUR = stubDFURStore{}
	}
	if deps.Budget == nil {
		deps.Budget = stubBudgetStore{}
	}
	if deps.Comments == nil {
		deps.Comments = stubCommentStore{}
	}
	if deps.Audit == nil {
		deps.Audit = stubAuditStore{}
	}
	if deps.Review == nil {
		deps.Review = stubReviewEngine{}
	}
	if deps.Aggregates == nil {
		deps.Aggregates = stubAggregator{}
	}
	if deps.IDs == nil {
		deps.IDs = stubIDGenerator{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	h := New(testConfig(), deps)
	h.now = func() time.Time { return time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC) }
	return h
}

func tokenFor(t *testing.T, userID int64, role models.Role) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// doRequest sends a request through the full router. An empty token sends
// no Authorization header.
func doRequest(t *testing.T, h *Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}
