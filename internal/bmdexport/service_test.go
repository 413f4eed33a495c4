package bmdexport

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nadeos/bmd-exporter/internal/bmdexport/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo serves a fixed record list in pages, like the SQL layer does.
type fakeRepo struct {
	records []domain.DocumentWithOrder
	types   [][]domain.DocumentType
	pages   int
}

func (r *fakeRepo) FetchDocuments(_ context.Context, _, _ time.Time, types []domain.DocumentType, offset, limit int) ([]domain.DocumentWithOrder, error) {
	r.types = append(r.types, types)
	r.pages++
	if offset >= len(r.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.records) {
		end = len(r.records)
	}
	return r.records[offset:end], nil
}

func newTestService(repo domain.Repository) *Service {
	return NewService(zap.NewNop(), repo, testResolver())
}

func invoiceRecord(orderNumber, docNumber string) domain.DocumentWithOrder {
	rec := sampleRecord()
	rec.Order.OrderNumber = orderNumber
	rec.Document.Number = docNumber
	return rec
}

func exportLines(t *testing.T, svc *Service, kind Kind) []string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), kind, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), &buf))
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestExportOrdersCSV(t *testing.T) {
	repo := &fakeRepo{records: []domain.DocumentWithOrder{invoiceRecord("10021", "10044")}}
	lines := exportLines(t, newTestService(repo), KindOrders)

	require.Len(t, lines, 2)
	assert.Equal(t, "satzart;konto;gkonto;belegnr;belegdatum;buchsymbol;buchcode;prozent;steuercode;betrag;steuer;text;kost;verbuchstatus", lines[0])
	// belegnr/belegdatum carry the document, decimals use commas.
	assert.Equal(t, ";201234;4000;10044;03.07.2025;AR;1;20;1;120,00;-20,00;Max Muster;;", lines[1])
}

func TestExportDeduplicatesJoinFanout(t *testing.T) {
	// Join fanout repeats the same document row; only one booking line
	// may reach the file.
	rec := invoiceRecord("10021", "10044")
	repo := &fakeRepo{records: []domain.DocumentWithOrder{rec, rec, rec}}

	lines := exportLines(t, newTestService(repo), KindOrders)
	assert.Len(t, lines, 2) // header + one row
}

func TestExportCancellationFlipsSign(t *testing.T) {
	rec := invoiceRecord("10021", "10050")
	rec.Document.Type = domain.DocumentTypeStorno
	repo := &fakeRepo{records: []domain.DocumentWithOrder{rec}}

	lines := exportLines(t, newTestService(repo), KindOrders)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ";-120,00;20,00;")
}

func TestExportCustomersCSV(t *testing.T) {
	repo := &fakeRepo{records: []domain.DocumentWithOrder{invoiceRecord("10021", "10044")}}
	lines := exportLines(t, newTestService(repo), KindCustomers)

	require.Len(t, lines, 2)
	assert.Equal(t, "Kto-Nr;Nachname;Kurzname;Vorname;Strasse;PLZ;Land;UID-Nummer", lines[0])
	assert.Equal(t, "201234;Muster;Max Muster;Max;Hauptstrasse 1;'1010;AT;ATU12345678", lines[1])
}

func TestExportFiltersByKind(t *testing.T) {
	repo := &fakeRepo{}
	exportLines(t, newTestService(repo), KindCancellationsOnly)

	require.Len(t, repo.types, 1)
	// The code-level alias is translated to the storage literal.
	assert.Equal(t, []domain.DocumentType{domain.DocumentTypeStorno}, repo.types[0])
}

func TestExportPaginatesUntilShortPage(t *testing.T) {
	records := make([]domain.DocumentWithOrder, PageSize+3)
	for i := range records {
		records[i] = invoiceRecord("10021", "10044")
	}
	repo := &fakeRepo{records: records}

	exportLines(t, newTestService(repo), KindOrders)
	assert.Equal(t, 2, repo.pages)
}

func TestExportUnknownKind(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	err := svc.Export(context.Background(), Kind("bogus"), time.Now(), &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidExportKind)
}

func TestExportHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(&fakeRepo{})
	err := svc.Export(ctx, KindOrders, time.Now(), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportOverview(t *testing.T) {
	rec := invoiceRecord("10021", "10044")
	repo := &fakeRepo{records: []domain.DocumentWithOrder{rec, rec}}

	var buf bytes.Buffer
	require.NoError(t, newTestService(repo).ExportOverview(context.Background(), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3) // overview keeps every document line
	assert.Equal(t, "Bestell Datum;Bestell Nr.;Dokument Datum;Dokument Nr.;Dokumentart;Kunden Nr.;Kunde;Betrag;Ref. Dokumentart;Ref. Dokument Nr.;Ref. Dokument Datum", lines[0])
	assert.Equal(t, "01.07.2025;10021;03.07.2025;10044;Rechnung;201234;Max Muster;120,00;;;", lines[1])
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(time.Date(2025, 2, 14, 11, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), to)
}
