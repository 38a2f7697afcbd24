package application

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"posadmin-cloud/internal/eventing"
	ledger "posadmin-cloud/internal/ledger/domain"
	"posadmin-cloud/internal/ledger/infrastructure/memory"
)

type fakeUpstream struct {
	doc        ledger.ReportDocument
	saveErr    error
	saveDoc    ledger.ReportDocument
	getCalls   int
	saveCalls  int
	savedReq   ledger.SaveRequest
	historyDoc []ledger.ReportDocument
}

func (f *fakeUpstream) GetSalesReport(_ context.Context, _ int, _ string) (ledger.ReportDocument, error) {
	f.getCalls++
	return f.doc, nil
}

func (f *fakeUpstream) SaveSalesReport(_ context.Context, req ledger.SaveRequest) (ledger.ReportDocument, error) {
	f.saveCalls++
	f.savedReq = req
	if f.saveErr != nil {
		return ledger.ReportDocument{}, f.saveErr
	}
	return f.saveDoc, nil
}

func (f *fakeUpstream) GetFullSalesReport(_ context.Context, _ int, _ string) ([]ledger.ReportDocument, error) {
	return f.historyDoc, nil
}

func movementDocument() ledger.ReportDocument {
	return ledger.ReportDocument{
		Date:   "2025-03-14",
		ShopID: 3,
		Opening: []ledger.ProductSummary{
			{
				ProductID:    7,
				CategoryName: "Rum",
				Sizes: []ledger.SizeSummary{
					{SizeID: 10, Quantity: 12, Price: 40},
				},
			},
		},
	}
}

func newTestService(t *testing.T, upstream *fakeUpstream) (*Service, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	logger := log.New(os.Stderr, "", 0)
	service, err := NewService(upstream, store, nil, eventing.NewInMemoryBus(), logger, Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, store
}

func TestEditPersistsSession(t *testing.T) {
	upstream := &fakeUpstream{doc: movementDocument()}
	service, store := newTestService(t, upstream)

	item, err := service.Edit(context.Background(), 3, "2025-03-14", 7, 10, ledger.FieldSold, "5")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if item.Sold[10] != 5 || item.Closing[10] != 7 {
		t.Fatalf("unexpected item after edit: %+v", item)
	}

	snapshot, ok := store.Get(3, "2025-03-14")
	if !ok {
		t.Fatal("expected stored session")
	}
	if snapshot.Categories[0].Items[0].Sold[10] != 5 {
		t.Fatal("edit not persisted to session")
	}
}

func TestEditRejectionLeavesSessionUntouched(t *testing.T) {
	upstream := &fakeUpstream{doc: movementDocument()}
	service, store := newTestService(t, upstream)

	if _, err := service.Edit(context.Background(), 3, "2025-03-14", 7, 10, ledger.FieldSold, "5"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	_, err := service.Edit(context.Background(), 3, "2025-03-14", 7, 10, ledger.FieldBroken, "8")
	if !errors.Is(err, ledger.ErrStockExceeded) {
		t.Fatalf("expected stock exceeded, got %v", err)
	}

	snapshot, _ := store.Get(3, "2025-03-14")
	item := snapshot.Categories[0].Items[0]
	if item.Broken[10] != 0 || item.Sold[10] != 5 {
		t.Fatalf("rejected edit mutated session: %+v", item)
	}
}

func TestSaveNothingToSave(t *testing.T) {
	upstream := &fakeUpstream{doc: movementDocument()}
	service, _ := newTestService(t, upstream)

	_, err := service.Save(context.Background(), 3, "2025-03-14")
	if !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("expected nothing to save, got %v", err)
	}
	if upstream.saveCalls != 0 {
		t.Fatalf("expected no upstream save, got %d calls", upstream.saveCalls)
	}
}

func TestSavePublishedConflictKeepsSession(t *testing.T) {
	upstream := &fakeUpstream{
		doc:     movementDocument(),
		saveErr: errors.New("Report is already published"),
	}
	service, store := newTestService(t, upstream)

	if _, err := service.Edit(context.Background(), 3, "2025-03-14", 7, 10, ledger.FieldSold, "5"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	fetchesBefore := upstream.getCalls

	_, err := service.Save(context.Background(), 3, "2025-03-14")
	if !errors.Is(err, ErrReportPublished) {
		t.Fatalf("expected published conflict, got %v", err)
	}
	if upstream.getCalls != fetchesBefore {
		t.Fatal("conflict must not trigger a refetch")
	}
	snapshot, _ := store.Get(3, "2025-03-14")
	if snapshot.Categories[0].Items[0].Sold[10] != 5 {
		t.Fatal("conflict must keep the edited session")
	}
}

func TestSaveFailureResynchronizesSession(t *testing.T) {
	upstream := &fakeUpstream{
		doc:     movementDocument(),
		saveErr: errors.New("upstream exploded"),
	}
	service, store := newTestService(t, upstream)

	if _, err := service.Edit(context.Background(), 3, "2025-03-14", 7, 10, ledger.FieldSold, "5"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	fetchesBefore := upstream.getCalls

	_, err := service.Save(context.Background(), 3, "2025-03-14")
	if !errors.Is(err, ErrUpstreamSave) {
		t.Fatalf("expected upstream save error, got %v", err)
	}
	if upstream.getCalls != fetchesBefore+1 {
		t.Fatalf("expected one resync fetch, got %d extra", upstream.getCalls-fetchesBefore)
	}
	snapshot, _ := store.Get(3, "2025-03-14")
	if snapshot.Categories[0].Items[0].Sold[10] != 0 {
		t.Fatal("failed save must resync the session from upstream")
	}
}

func TestSaveSuccessReplacesSessionAndPublishes(t *testing.T) {
	savedDoc := movementDocument()
	savedDoc.Sales = []ledger.ProductSummary{
		{ProductID: 7, Sizes: []ledger.SizeSummary{{SizeID: 10, Quantity: 5, Price: 40}}},
	}
	upstream := &fakeUpstream{doc: movementDocument(), saveDoc: savedDoc}

	store := memory.NewSessionStore()
	bus := eventing.NewInMemoryBus()
	var published []ReportSaved
	bus.Subscribe(eventing.EventTypeOf[ReportSaved](), func(_ context.Context, event any) error {
		published = append(published, event.(ReportSaved))
		return nil
	})
	logger := log.New(os.Stderr, "", 0)
	service, err := NewService(upstream, store, nil, bus, logger, Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := service.Edit(context.Background(), 3, "2025-03-14", 7, 10, ledger.FieldSold, "5"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	snapshot, err := service.Save(context.Background(), 3, "2025-03-14")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(upstream.savedReq.Sales) != 1 || upstream.savedReq.Sales[0].Sizes[0].Quantity != 5 {
		t.Fatalf("unexpected save payload: %+v", upstream.savedReq)
	}
	if len(upstream.savedReq.Opening) != 0 || upstream.savedReq.Opening == nil {
		t.Fatal("opening bucket must be present and empty in the save payload")
	}
	if snapshot.Categories[0].Items[0].Sold[10] != 5 {
		t.Fatalf("saved session must reflect upstream response: %+v", snapshot)
	}
	if len(published) != 1 || published[0].ShopID != 3 {
		t.Fatalf("expected one ReportSaved event, got %+v", published)
	}
}
