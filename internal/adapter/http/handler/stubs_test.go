package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

const testOwner = "owner-1"

// newOwnerRequest builds a request authenticated as testOwner with the given
// chi URL params as key/value pairs.
func newOwnerRequest(method, target string, body io.Reader, params ...string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := domain.ContextWithOwner(req.Context(), &domain.Owner{ID: testOwner})

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

type bucketServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateBucketInput) (*domain.Bucket, error)
	updateFn func(ctx context.Context, input usecase.UpdateBucketInput) (*domain.Bucket, error)
	deleteFn func(ctx context.Context, ownerID, bucketID string) (*usecase.DeleteBucketResult, error)
	listFn   func(ctx context.Context, ownerID string) (*usecase.BucketList, error)
}

func (s *bucketServiceStub) CreateBucket(ctx context.Context, input usecase.CreateBucketInput) (*domain.Bucket, error) {
	return s.createFn(ctx, input)
}

func (s *bucketServiceStub) UpdateBucket(ctx context.Context, input usecase.UpdateBucketInput) (*domain.Bucket, error) {
	return s.updateFn(ctx, input)
}

func (s *bucketServiceStub) DeleteBucket(ctx context.Context, ownerID, bucketID string) (*usecase.DeleteBucketResult, error) {
	return s.deleteFn(ctx, ownerID, bucketID)
}

func (s *bucketServiceStub) ListBuckets(ctx context.Context, ownerID string) (*usecase.BucketList, error) {
	return s.listFn(ctx, ownerID)
}

type balanceServiceStub struct {
	balanceFn func(ctx context.Context, ownerID, bucketID string) (*domain.BucketBalance, error)
}

func (s *balanceServiceStub) BalanceOf(ctx context.Context, ownerID, bucketID string) (*domain.BucketBalance, error) {
	return s.balanceFn(ctx, ownerID, bucketID)
}

type incomeServiceStub struct {
	recordFn func(ctx context.Context, input usecase.RecordIncomeInput) (*domain.IncomeAllocation, error)
	updateFn func(ctx context.Context, input usecase.UpdateIncomeInput) (*domain.IncomeAllocation, error)
	deleteFn func(ctx context.Context, ownerID, groupKey string) error
	listFn   func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.IncomeAllocation, error)
}

func (s *incomeServiceStub) RecordIncome(ctx context.Context, input usecase.RecordIncomeInput) (*domain.IncomeAllocation, error) {
	return s.recordFn(ctx, input)
}

func (s *incomeServiceStub) UpdateIncome(ctx context.Context, input usecase.UpdateIncomeInput) (*domain.IncomeAllocation, error) {
	return s.updateFn(ctx, input)
}

func (s *incomeServiceStub) DeleteIncome(ctx context.Context, ownerID, groupKey string) error {
	return s.deleteFn(ctx, ownerID, groupKey)
}

func (s *incomeServiceStub) ListIncome(ctx context.Context, ownerID string, limit, offset int) ([]*domain.IncomeAllocation, error) {
	return s.listFn(ctx, ownerID, limit, offset)
}

type movementServiceStub struct {
	recordFn func(ctx context.Context, input usecase.DirectMovementInput) (*domain.LedgerEntry, error)
	updateFn func(ctx context.Context, input usecase.UpdateDirectMovementInput) (*domain.LedgerEntry, error)
	deleteFn func(ctx context.Context, ownerID, entryID string) error
	listFn   func(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

func (s *movementServiceStub) RecordDirectMovement(ctx context.Context, input usecase.DirectMovementInput) (*domain.LedgerEntry, error) {
	return s.recordFn(ctx, input)
}

func (s *movementServiceStub) UpdateDirectMovement(ctx context.Context, input usecase.UpdateDirectMovementInput) (*domain.LedgerEntry, error) {
	return s.updateFn(ctx, input)
}

func (s *movementServiceStub) DeleteDirectMovement(ctx context.Context, ownerID, entryID string) error {
	return s.deleteFn(ctx, ownerID, entryID)
}

func (s *movementServiceStub) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	return s.listFn(ctx, filter)
}

type labelServiceStub struct {
	createFn func(ctx context.Context, ownerID, name string) (*domain.Label, error)
	renameFn func(ctx context.Context, ownerID, labelID, name string) (*domain.Label, error)
	deleteFn func(ctx context.Context, ownerID, labelID string) error
	listFn   func(ctx context.Context, ownerID string) ([]*domain.Label, error)
}

func (s *labelServiceStub) CreateLabel(ctx context.Context, ownerID, name string) (*domain.Label, error) {
	return s.createFn(ctx, ownerID, name)
}

func (s *labelServiceStub) RenameLabel(ctx context.Context, ownerID, labelID, name string) (*domain.Label, error) {
	return s.renameFn(ctx, ownerID, labelID, name)
}

func (s *labelServiceStub) DeleteLabel(ctx context.Context, ownerID, labelID string) error {
	return s.deleteFn(ctx, ownerID, labelID)
}

func (s *labelServiceStub) ListLabels(ctx context.Context, ownerID string) ([]*domain.Label, error) {
	return s.listFn(ctx, ownerID)
}

type debtServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateDebtInput) (*domain.Debt, error)
	settleFn func(ctx context.Context, ownerID, debtID string) (*domain.Debt, error)
	deleteFn func(ctx context.Context, ownerID, debtID string) error
	listFn   func(ctx context.Context, filter domain.DebtFilter) (*usecase.DebtList, error)
}

func (s *debtServiceStub) CreateDebt(ctx context.Context, input usecase.CreateDebtInput) (*domain.Debt, error) {
	return s.createFn(ctx, input)
}

func (s *debtServiceStub) SettleDebt(ctx context.Context, ownerID, debtID string) (*domain.Debt, error) {
	return s.settleFn(ctx, ownerID, debtID)
}

func (s *debtServiceStub) DeleteDebt(ctx context.Context, ownerID, debtID string) error {
	return s.deleteFn(ctx, ownerID, debtID)
}

func (s *debtServiceStub) ListDebts(ctx context.Context, filter domain.DebtFilter) (*usecase.DebtList, error) {
	return s.listFn(ctx, filter)
}

type reconciliationServiceStub struct {
	runFn    func(ctx context.Context, ownerID string) (*usecase.ReconciliationReport, error)
	latestFn func(ctx context.Context, ownerID string) (*usecase.ReconciliationReport, error)
}

func (s *reconciliationServiceStub) ReconcileOwner(ctx context.Context, ownerID string) (*usecase.ReconciliationReport, error) {
	return s.runFn(ctx, ownerID)
}

func (s *reconciliationServiceStub) LatestReport(ctx context.Context, ownerID string) (*usecase.ReconciliationReport, error) {
	return s.latestFn(ctx, ownerID)
}
