package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/smartstock/smartstock/internal/documents"
	"github.com/smartstock/smartstock/internal/masterdata/items"
	"github.com/smartstock/smartstock/internal/masterdata/suppliers"
	"github.com/smartstock/smartstock/jobs"
)

// ItemSource lists every item.
type ItemSource interface {
	All(ctx context.Context) ([]items.Item, error)
}

// SupplierSource lists every supplier.
type SupplierSource interface {
	All(ctx context.Context) ([]suppliers.Supplier, error)
}

// DepartmentCounter counts departments.
type DepartmentCounter interface {
	Count(ctx context.Context) (int, error)
}

// DocumentSource lists stored documents of one kind.
type DocumentSource interface {
	List(ctx context.Context, kind documents.Kind, filter documents.ListFilter) ([]documents.Document, int, error)
}

// Sources groups the collections reports read from.
type Sources struct {
	Items       ItemSource
	Suppliers   SupplierSource
	Departments DepartmentCounter
	Documents   DocumentSource
}

// Service loads collections concurrently and aggregates them.
type Service struct {
	src  Sources
	opts ReportOptions
}

// NewService wires report sources with the stock bands in opts.
func NewService(src Sources, opts ReportOptions) *Service {
	return &Service{src: src, opts: opts}
}

// Dashboard returns headline counts. Document counts come from list totals,
// so no document body is loaded.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		d      Dashboard
		counts = make([]int, len(documents.Kinds))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		all, err := s.src.Items.All(ctx)
		if err != nil {
			return fmt.Errorf("analytics: load items: %w", err)
		}
		records := itemRecords(all)
		d.TotalItems = len(records)
		d.TotalStockValue = TotalStockValue(records)
		return nil
	})
	g.Go(func() error {
		n, err := s.src.Departments.Count(ctx)
		if err != nil {
			return fmt.Errorf("analytics: count departments: %w", err)
		}
		d.TotalDepartments = n
		return nil
	})
	for i, kind := range documents.Kinds {
		g.Go(func() error {
			_, total, err := s.src.Documents.List(ctx, kind, documents.ListFilter{Limit: 1})
			if err != nil {
				return fmt.Errorf("analytics: count %s: %w", kind, err)
			}
			counts[i] = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	d.PurchaseOrders, d.GRNs, d.IssueNotes = counts[0], counts[1], counts[2]
	return d, nil
}

// Transactions returns the combined document feed, newest first.
func (s *Service) Transactions(ctx context.Context) ([]Transaction, error) {
	in, err := s.load(ctx, loadDocuments)
	if err != nil {
		return nil, err
	}
	return Transactions(in), nil
}

// SupplierReport totals purchase orders per supplier.
func (s *Service) SupplierReport(ctx context.Context) ([]SupplierSummary, error) {
	in, err := s.load(ctx, loadSuppliers|loadPurchaseOrders)
	if err != nil {
		return nil, err
	}
	return SupplierSummaries(in.Suppliers, in.PurchaseOrders), nil
}

// ItemReport classifies every item against the configured stock bands.
func (s *Service) ItemReport(ctx context.Context) ([]ItemSummary, error) {
	in, err := s.load(ctx, loadItems)
	if err != nil {
		return nil, err
	}
	return ItemSummaries(in.Items, s.opts), nil
}

// Report loads everything and aggregates all reports at once.
func (s *Service) Report(ctx context.Context) (ReportSummary, error) {
	in, err := s.load(ctx, loadAll)
	if err != nil {
		return ReportSummary{}, err
	}
	return AggregateReport(in, s.opts), nil
}

// LowStockItems lists items flagged as low stock.
func (s *Service) LowStockItems(ctx context.Context) ([]jobs.LowStockItem, error) {
	report, err := s.ItemReport(ctx)
	if err != nil {
		return nil, err
	}
	var out []jobs.LowStockItem
	for _, it := range report {
		if it.Status != StockLow {
			continue
		}
		out = append(out, jobs.LowStockItem{Code: it.Code, Description: it.Name, ReorderLevel: it.Stock.String()})
	}
	return out, nil
}

type loadSet uint8

const (
	loadItems loadSet = 1 << iota
	loadSuppliers
	loadDepartments
	loadPurchaseOrders
	loadGRNs
	loadIssueNotes

	loadDocuments = loadPurchaseOrders | loadGRNs | loadIssueNotes
	loadAll       = loadItems | loadSuppliers | loadDepartments | loadDocuments
)

func (s *Service) load(ctx context.Context, what loadSet) (ReportInput, error) {
	var in ReportInput
	g, ctx := errgroup.WithContext(ctx)

	if what&loadItems != 0 {
		g.Go(func() error {
			all, err := s.src.Items.All(ctx)
			if err != nil {
				return fmt.Errorf("analytics: load items: %w", err)
			}
			in.Items = itemRecords(all)
			return nil
		})
	}
	if what&loadSuppliers != 0 {
		g.Go(func() error {
			all, err := s.src.Suppliers.All(ctx)
			if err != nil {
				return fmt.Errorf("analytics: load suppliers: %w", err)
			}
			in.Suppliers = make([]SupplierRecord, 0, len(all))
			for _, sup := range all {
				in.Suppliers = append(in.Suppliers, SupplierRecord{ID: sup.ID, Code: sup.Code, Name: sup.Name})
			}
			return nil
		})
	}
	if what&loadDepartments != 0 {
		g.Go(func() error {
			n, err := s.src.Departments.Count(ctx)
			if err != nil {
				return fmt.Errorf("analytics: count departments: %w", err)
			}
			in.Departments = n
			return nil
		})
	}
	docs := []struct {
		flag loadSet
		kind documents.Kind
		dst  *[]documents.Document
	}{
		{loadPurchaseOrders, documents.KindPurchaseOrder, &in.PurchaseOrders},
		{loadGRNs, documents.KindGRN, &in.GRNs},
		{loadIssueNotes, documents.KindIssueNote, &in.IssueNotes},
	}
	for _, d := range docs {
		if what&d.flag == 0 {
			continue
		}
		g.Go(func() error {
			list, _, err := s.src.Documents.List(ctx, d.kind, documents.ListFilter{})
			if err != nil {
				return fmt.Errorf("analytics: load %s: %w", d.kind, err)
			}
			*d.dst = list
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ReportInput{}, err
	}
	return in, nil
}

func itemRecords(all []items.Item) []ItemRecord {
	out := make([]ItemRecord, 0, len(all))
	for _, it := range all {
		out = append(out, ItemRecord{
			ID:          it.ID,
			Code:        it.ItemCode,
			Description: it.Description,
			Category:    it.Category,
			UnitPrice:   it.UnitPrice,
			ReOrder:     it.ReOrder,
		})
	}
	return out
}
