package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase checks the stored ledger against its invariants.
type ReconciliationUseCase struct {
	bucketRepo BucketRepository
	entryRepo  LedgerEntryRepository
	reports    ReportStore
	metrics    *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	bucketRepo BucketRepository,
	entryRepo LedgerEntryRepository,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		bucketRepo: bucketRepo,
		entryRepo:  entryRepo,
		metrics:    metrics,
	}
}

// WithReportStore makes ReconcileAll keep each owner's latest report in store.
func (uc *ReconciliationUseCase) WithReportStore(store ReportStore) *ReconciliationUseCase {
	uc.reports = store
	return uc
}

// ReconciliationReport is the outcome of checking one owner.
type ReconciliationReport struct {
	OwnerID           string
	TotalSharePercent int
	GroupsChecked     int
	Discrepancies     []domain.GroupTotal
	CheckedAt         time.Time
}

// ShareWithinLimit reports whether the owner's shares sum to at most 100.
func (r *ReconciliationReport) ShareWithinLimit() bool {
	return r.TotalSharePercent <= domain.MaxSharePercent
}

// Consistent reports whether no problem was found.
func (r *ReconciliationReport) Consistent() bool {
	return r.ShareWithinLimit() && len(r.Discrepancies) == 0
}

// ReconcileOwner verifies that every income group's allocations sum to its
// parent and that the owner's shares do not exceed 100.
func (uc *ReconciliationUseCase) ReconcileOwner(ctx context.Context, ownerID string) (*ReconciliationReport, error) {
	buckets, err := uc.bucketRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totals, err := uc.entryRepo.IncomeGroupTotals(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		OwnerID:           ownerID,
		TotalSharePercent: domain.TotalShare(buckets, ""),
		GroupsChecked:     len(totals),
		Discrepancies:     make([]domain.GroupTotal, 0),
		CheckedAt:         time.Now().UTC(),
	}

	for _, g := range totals {
		if !g.Balanced() || g.Children == 0 {
			report.Discrepancies = append(report.Discrepancies, g)
		}
	}

	return report, nil
}

// ReconcileAll checks every owner that has at least one bucket.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationReport, error) {
	owners, err := uc.bucketRepo.ListOwners(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*ReconciliationReport, 0, len(owners))
	discrepancies := 0

	for _, ownerID := range owners {
		report, err := uc.ReconcileOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile owner %s: %w", ownerID, err)
		}

		if !report.ShareWithinLimit() {
			discrepancies++
		}
		discrepancies += len(report.Discrepancies)

		if uc.reports != nil {
			if err := uc.reports.Save(ctx, report); err != nil {
				return nil, fmt.Errorf("failed to store report for owner %s: %w", ownerID, err)
			}
		}

		reports = append(reports, report)
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		uc.metrics.ReconciliationDiscrepancies.Set(float64(discrepancies))
	}

	return reports, nil
}

// LatestReport returns the report stored by the last ReconcileAll run.
func (uc *ReconciliationUseCase) LatestReport(ctx context.Context, ownerID string) (*ReconciliationReport, error) {
	if uc.reports == nil {
		return nil, fmt.Errorf("reconciliation report %w", domain.ErrNotFound)
	}
	return uc.reports.Latest(ctx, ownerID)
}
