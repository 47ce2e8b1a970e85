package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
	"github.com/iho/shareledger/internal/usecase"
)

// ErrReportNotFound is returned when an owner has no stored report.
var ErrReportNotFound = fmt.Errorf("reconciliation report %w", domain.ErrNotFound)

// ReportStore implements usecase.ReportStore, one JSON document per owner.
type ReportStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewReportStore creates a ReportStore. Reports expire after ttl; zero keeps them.
func NewReportStore(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *ReportStore {
	return &ReportStore{
		client:  client,
		prefix:  "reconciliation:",
		ttl:     ttl,
		metrics: m,
	}
}

type groupRecord struct {
	GroupKey     string `json:"group_key"`
	ParentAmount int64  `json:"parent_amount"`
	ChildrenSum  int64  `json:"children_sum"`
	Children     int    `json:"children"`
}

type reportRecord struct {
	OwnerID           string        `json:"owner_id"`
	TotalSharePercent int           `json:"total_share_percent"`
	GroupsChecked     int           `json:"groups_checked"`
	Discrepancies     []groupRecord `json:"discrepancies"`
	CheckedAt         time.Time     `json:"checked_at"`
}

// Save overwrites the owner's latest report.
func (s *ReportStore) Save(ctx context.Context, report *usecase.ReconciliationReport) error {
	rec := reportRecord{
		OwnerID:           report.OwnerID,
		TotalSharePercent: report.TotalSharePercent,
		GroupsChecked:     report.GroupsChecked,
		Discrepancies:     make([]groupRecord, len(report.Discrepancies)),
		CheckedAt:         report.CheckedAt,
	}
	for i, g := range report.Discrepancies {
		rec.Discrepancies[i] = groupRecord{
			GroupKey:     g.GroupKey,
			ParentAmount: int64(g.ParentAmount),
			ChildrenSum:  int64(g.ChildrenSum),
			Children:     g.Children,
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	s.count("set")
	if err := s.client.Set(ctx, s.prefix+report.OwnerID, data, s.ttl).Err(); err != nil {
		s.fail("set")
		return err
	}
	return nil
}

// Latest returns the owner's latest report or ErrReportNotFound.
func (s *ReportStore) Latest(ctx context.Context, ownerID string) (*usecase.ReconciliationReport, error) {
	s.count("get")
	data, err := s.client.Get(ctx, s.prefix+ownerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		s.fail("get")
		return nil, err
	}

	var rec reportRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	report := &usecase.ReconciliationReport{
		OwnerID:           rec.OwnerID,
		TotalSharePercent: rec.TotalSharePercent,
		GroupsChecked:     rec.GroupsChecked,
		Discrepancies:     make([]domain.GroupTotal, len(rec.Discrepancies)),
		CheckedAt:         rec.CheckedAt,
	}
	for i, g := range rec.Discrepancies {
		report.Discrepancies[i] = domain.GroupTotal{
			GroupKey:     g.GroupKey,
			ParentAmount: domain.Cents(g.ParentAmount),
			ChildrenSum:  domain.Cents(g.ChildrenSum),
			Children:     g.Children,
		}
	}

	return report, nil
}

func (s *ReportStore) count(op string) {
	if s.metrics != nil {
		s.metrics.RedisOperations.WithLabelValues("report_" + op).Inc()
	}
}

func (s *ReportStore) fail(op string) {
	if s.metrics != nil {
		s.metrics.RedisErrors.WithLabelValues("report_" + op).Inc()
	}
}
