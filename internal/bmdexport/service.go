package bmdexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/nadeos/bmd-exporter/internal/bmdexport/domain"
	"github.com/nadeos/bmd-exporter/internal/tax"
	"go.uber.org/zap"
)

// Kind selects which export file is produced.
type Kind string

const (
	KindOrders            Kind = "orders"
	KindCustomers         Kind = "customers"
	KindInvoicesOnly      Kind = "invoices-only"
	KindCancellationsOnly Kind = "cancellations-only"
	KindCreditsOnly       Kind = "credits-only"
)

// PageSize is the document fetch batch size. A month is never held in
// memory at once.
const PageSize = 500

// Service streams month exports as BMD CSV files.
type Service struct {
	log  *zap.Logger
	repo domain.Repository

	orderExtractor    Extractor
	customerExtractor Extractor
}

func NewService(log *zap.Logger, repo domain.Repository, resolver *tax.Resolver) *Service {
	return &Service{
		log:               log.Named("bmdexport"),
		repo:              repo,
		orderExtractor:    NewOrderRowExtractor(resolver),
		customerExtractor: NewCustomerRowExtractor(),
	}
}

// negate flips the sign without producing -0.00 in the CSV.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// MonthWindow returns the UTC window [1st 00:00:00, last day 23:59:59] of
// the month containing t.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	return from, to
}

func (s *Service) extractorFor(kind Kind) (Extractor, []domain.DocumentType, error) {
	switch kind {
	case KindOrders:
		return s.orderExtractor, domain.ValidDocumentTypes(), nil
	case KindCustomers:
		return s.customerExtractor, domain.ValidDocumentTypes(), nil
	case KindInvoicesOnly:
		return s.orderExtractor, []domain.DocumentType{domain.DocumentTypeInvoice}, nil
	case KindCancellationsOnly:
		return s.orderExtractor, []domain.DocumentType{domain.DocumentTypeCancellation}, nil
	case KindCreditsOnly:
		return s.orderExtractor, []domain.DocumentType{domain.DocumentTypeCreditNote}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidExportKind, kind)
	}
}

// Export writes the CSV for the given kind and month to w. Rows are fetched
// in pages, duplicate joins are collapsed by content hash, and any
// extraction or query failure aborts the whole export.
func (s *Service) Export(ctx context.Context, kind Kind, month time.Time, w io.Writer) error {
	extractor, types, err := s.extractorFor(kind)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	var (
		headerKeys []string
		seen       = map[string]bool{}
		emitted    int
	)

	err = s.stream(ctx, extractor, types, month, func(row *domain.Row) error {
		row = row.Without(documentKeys...)

		if headerKeys == nil {
			headerKeys = row.Keys()
			if err := cw.Write(headerKeys); err != nil {
				return err
			}
		}

		hash := row.Hash()
		if seen[hash] {
			return nil
		}
		seen[hash] = true

		emitted++
		return cw.Write(row.Record(headerKeys))
	})
	if err != nil {
		return err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	s.log.Info("export finished",
		zap.String("kind", string(kind)),
		zap.String("month", month.Format("2006-01")),
		zap.Int("rows", emitted),
	)
	return nil
}

// overviewHeaders is the fixed column list of the overview CSV, keyed by
// row keys in output order.
var overviewHeaders = []struct {
	Key   string
	Title string
}{
	{"order.date", "Bestell Datum"},
	{"order.number", "Bestell Nr."},
	{"document.date", "Dokument Datum"},
	{"document.number", "Dokument Nr."},
	{"document.name", "Dokumentart"},
	{"konto", "Kunden Nr."},
	{"text", "Kunde"},
	{"betrag", "Betrag"},
	{"referencedDocument.name", "Ref. Dokumentart"},
	{"referencedDocument.number", "Ref. Dokument Nr."},
	{"referencedDocument.date", "Ref. Dokument Datum"},
}

// ExportOverview writes the human-facing document overview CSV (fixed
// German header set, one line per document, no dedup).
func (s *Service) ExportOverview(ctx context.Context, month time.Time, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	keys := make([]string, len(overviewHeaders))
	titles := make([]string, len(overviewHeaders))
	for i, h := range overviewHeaders {
		keys[i] = h.Key
		titles[i] = h.Title
	}

	if err := cw.Write(titles); err != nil {
		return err
	}

	err := s.stream(ctx, s.orderExtractor, domain.ValidDocumentTypes(), month, func(row *domain.Row) error {
		return cw.Write(row.Record(keys))
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// stream pages through the month's documents and pushes one extracted row
// per document. For booking rows the cancellation types flip the monetary
// sign and the document number/date replace the order linkage, mirroring
// what the accounting import expects.
func (s *Service) stream(ctx context.Context, extractor Extractor, types []domain.DocumentType, month time.Time, fn func(*domain.Row) error) error {
	from, to := MonthWindow(month)

	storageTypes := make([]domain.DocumentType, len(types))
	for i, t := range types {
		storageTypes[i] = t.StorageName()
	}

	isOrderRows := extractor == s.orderExtractor

	for offset := 0; ; offset += PageSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.repo.FetchDocuments(ctx, from, to, storageTypes, offset, PageSize)
		if err != nil {
			return fmt.Errorf("fetch documents page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			return nil
		}

		for _, rec := range page {
			row, err := extractor.Extract(rec)
			if err != nil {
				return err
			}

			if isOrderRows {
				if rec.Document.Type.IsCancellation() {
					row.Set("betrag", negate(row.Float("betrag")))
					row.Set("steuer", negate(row.Float("steuer")))
				}
				row.Set("belegnr", rec.Document.Number)
				row.Set("belegdatum", rec.Document.CreatedAt.Format(dateLayout))
			}

			if err := fn(row); err != nil {
				return err
			}
		}

		if len(page) < PageSize {
			return nil
		}
	}
}
