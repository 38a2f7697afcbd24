package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"posadmin-cloud/internal/eventing"
	ledger "posadmin-cloud/internal/ledger/domain"
	"posadmin-cloud/internal/observability/metrics"
)

var (
	// ErrNothingToSave is returned when no movement cell holds a positive quantity.
	ErrNothingToSave = errors.New("report: nothing to save")
	// ErrReportPublished is returned when the upstream rejects a save for an
	// already published report. The working session is kept as-is.
	ErrReportPublished = errors.New("report: already published")
	// ErrUpstreamSave wraps other upstream save failures. The session is
	// resynchronized from the upstream before this is returned.
	ErrUpstreamSave = errors.New("report: upstream save failed")
)

// UpstreamClient is the sales API surface the report session needs.
type UpstreamClient interface {
	GetSalesReport(ctx context.Context, shopID int, date string) (ledger.ReportDocument, error)
	SaveSalesReport(ctx context.Context, req ledger.SaveRequest) (ledger.ReportDocument, error)
	GetFullSalesReport(ctx context.Context, shopID int, date string) ([]ledger.ReportDocument, error)
}

// SessionStore keeps working snapshots between requests.
type SessionStore interface {
	Get(shopID int, date string) (ledger.Snapshot, bool)
	Replace(snapshot ledger.Snapshot)
}

// Service coordinates report sessions: loading movement summaries,
// applying cell edits and publishing the day's report upstream.
type Service struct {
	upstream UpstreamClient
	store    SessionStore
	names    ledger.NameResolver
	bus      eventing.Bus
	logger   *log.Logger
	cfg      Config

	// Serializes load/edit/save per process so a save cannot race a
	// concurrent edit on the same working session.
	mu sync.Mutex
}

// NewService constructs a report session service.
func NewService(upstream UpstreamClient, store SessionStore, names ledger.NameResolver, bus eventing.Bus, logger *log.Logger, cfg Config) (*Service, error) {
	if upstream == nil {
		return nil, errors.New("report: nil upstream client")
	}
	if store == nil {
		return nil, errors.New("report: nil session store")
	}
	if logger == nil {
		logger = log.Default()
	}
	if cfg.ConflictMarker == "" {
		cfg.ConflictMarker = DefaultConflictMarker
	}
	return &Service{upstream: upstream, store: store, names: names, bus: bus, logger: logger, cfg: cfg}, nil
}

// Load fetches the day's movement summaries and opens a fresh working
// session, replacing any existing one for the same shop and date.
func (s *Service) Load(ctx context.Context, shopID int, date string) (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx, shopID, date)
}

// Current returns the working session, loading it on first access.
func (s *Service) Current(ctx context.Context, shopID int, date string) (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot, ok := s.store.Get(shopID, date); ok {
		return snapshot, nil
	}
	return s.reload(ctx, shopID, date)
}

// Edit applies one cell edit to the working session. On success the
// updated session is stored and the recalculated item returned. On
// rejection the session is left untouched.
func (s *Service) Edit(ctx context.Context, shopID int, date string, productID ledger.ProductID, sizeID ledger.SizeID, field ledger.Field, rawText string) (ledger.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.store.Get(shopID, date)
	if !ok {
		var err error
		snapshot, err = s.reload(ctx, shopID, date)
		if err != nil {
			return ledger.Item{}, err
		}
	}

	updated, item, err := ledger.ApplyEdit(snapshot, productID, sizeID, field, rawText)
	if err != nil {
		metrics.ObserveReportEdit(metrics.ResultError)
		metrics.ObserveEditRejection(RejectionReason(err))
		return ledger.Item{}, err
	}
	s.store.Replace(updated)
	metrics.ObserveReportEdit(metrics.ResultSuccess)
	return item, nil
}

// Save publishes the working session upstream.
//
// A published-report conflict keeps the session untouched so the
// operator's edits survive; any other upstream failure resynchronizes
// the session from the upstream state before reporting the error.
func (s *Service) Save(ctx context.Context, shopID int, date string) (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportSave(result, time.Since(start))
	}()

	snapshot, ok := s.store.Get(shopID, date)
	if !ok {
		var err error
		snapshot, err = s.reload(ctx, shopID, date)
		if err != nil {
			result = metrics.ResultError
			return ledger.Snapshot{}, err
		}
	}

	if !ledger.Project(snapshot).HasMovementData {
		result = metrics.ResultError
		return snapshot, ErrNothingToSave
	}

	payload := ledger.BuildSavePayload(snapshot)
	doc, err := s.upstream.SaveSalesReport(ctx, payload)
	if err != nil {
		result = metrics.ResultError
		if strings.Contains(err.Error(), s.cfg.ConflictMarker) {
			s.publish(ctx, ReportSaveFailed{ShopID: shopID, Date: date, Reason: err.Error(), Published: true})
			return snapshot, ErrReportPublished
		}
		s.publish(ctx, ReportSaveFailed{ShopID: shopID, Date: date, Reason: err.Error()})
		resynced, reloadErr := s.reload(ctx, shopID, date)
		if reloadErr != nil {
			s.logger.Printf("report resync failed shop=%d date=%s err=%v", shopID, date, reloadErr)
			return snapshot, fmt.Errorf("%w: %v", ErrUpstreamSave, err)
		}
		return resynced, fmt.Errorf("%w: %v", ErrUpstreamSave, err)
	}

	saved := s.buildSnapshot(shopID, date, doc)
	s.store.Replace(saved)
	s.publish(ctx, ReportSaved{ShopID: shopID, Date: date, TotalSalesValue: ledger.Project(saved).GrandTotalSalesValue})
	s.logger.Printf("report saved shop=%d date=%s", shopID, date)
	return saved, nil
}

// Report returns the working session with its derived projections.
func (s *Service) Report(ctx context.Context, shopID int, date string) (ledger.Snapshot, ledger.Projections, error) {
	snapshot, err := s.Current(ctx, shopID, date)
	if err != nil {
		return ledger.Snapshot{}, ledger.Projections{}, err
	}
	return snapshot, ledger.Project(snapshot), nil
}

// History returns all stored report documents for a shop up to a date.
func (s *Service) History(ctx context.Context, shopID int, date string) ([]ledger.ReportDocument, error) {
	return s.upstream.GetFullSalesReport(ctx, shopID, date)
}

func (s *Service) reload(ctx context.Context, shopID int, date string) (ledger.Snapshot, error) {
	start := time.Now()
	doc, err := s.upstream.GetSalesReport(ctx, shopID, date)
	if err != nil {
		metrics.ObserveReportFetch(metrics.ResultError, time.Since(start))
		return ledger.Snapshot{}, err
	}
	metrics.ObserveReportFetch(metrics.ResultSuccess, time.Since(start))

	snapshot := s.buildSnapshot(shopID, date, doc)
	s.store.Replace(snapshot)
	return snapshot, nil
}

func (s *Service) buildSnapshot(shopID int, date string, doc ledger.ReportDocument) ledger.Snapshot {
	opts := []ledger.BuildOption{}
	if s.names != nil {
		opts = append(opts, ledger.WithNameResolver(s.names))
	}
	if s.cfg.DefaultCategory != "" {
		opts = append(opts, ledger.WithDefaultCategory(s.cfg.DefaultCategory))
	}
	return ledger.BuildSnapshot(shopID, date, doc, opts...)
}

func (s *Service) publish(ctx context.Context, event any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Printf("event publish failed type=%s err=%v", eventing.EventType(event), err)
	}
}

// RejectionReason maps an edit rejection to a stable reason label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrNonNumericInput):
		return "non_numeric"
	case errors.Is(err, ledger.ErrStockExceeded):
		return "stock_exceeded"
	case errors.Is(err, ledger.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, ledger.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, ledger.ErrSizeNotFound):
		return "size_not_found"
	default:
		return "other"
	}
}
