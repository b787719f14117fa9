package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smartstock/smartstock/internal/masterdata/categories"
	"github.com/smartstock/smartstock/internal/masterdata/departments"
	"github.com/smartstock/smartstock/internal/masterdata/items"
	mdshared "github.com/smartstock/smartstock/internal/masterdata/shared"
	"github.com/smartstock/smartstock/internal/masterdata/suppliers"
)

// seeder inserts demo master data through the regular services so the same
// validation applies. Rows whose code already exists are skipped.
type seeder struct {
	categories  *categories.Service
	departments *departments.Service
	suppliers   *suppliers.Service
	items       *items.Service
	out         io.Writer
}

func (s seeder) run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{"categories", s.seedCategories},
		{"departments", s.seedDepartments},
		{"suppliers", s.seedSuppliers},
		{"items", s.seedItems},
	}
	for _, step := range steps {
		fmt.Fprintf(s.out, "→ Seeding %s...\n", step.name)
		n, err := step.fn(ctx)
		if err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		fmt.Fprintf(s.out, "  %d inserted\n", n)
	}
	return nil
}

func skipDuplicate(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mdshared.ErrDuplicate):
		return false, nil
	default:
		return false, err
	}
}

func (s seeder) seedCategories(ctx context.Context) (int, error) {
	rows := []categories.Category{
		{Code: "HW", Description: "Hardware"},
		{Code: "EL", Description: "Electrical"},
		{Code: "ST", Description: "Stationery"},
	}
	n := 0
	for _, row := range rows {
		_, err := s.categories.Create(ctx, row)
		inserted, err := skipDuplicate(err)
		if err != nil {
			return n, err
		}
		if inserted {
			n++
		}
	}
	return n, nil
}

func (s seeder) seedDepartments(ctx context.Context) (int, error) {
	rows := []departments.Department{
		{Code: "STR", Name: "Stores", Description: "Central stores"},
		{Code: "MNT", Name: "Maintenance", Description: "Plant maintenance"},
	}
	n := 0
	for _, row := range rows {
		_, err := s.departments.Create(ctx, row)
		inserted, err := skipDuplicate(err)
		if err != nil {
			return n, err
		}
		if inserted {
			n++
		}
	}
	return n, nil
}

func (s seeder) seedSuppliers(ctx context.Context) (int, error) {
	rows := []suppliers.Supplier{
		{Code: "SUP-01", Name: "Acme Traders", Email: "sales@acme.example", Address: "12 Harbour Road", TP1: "0112345678", Date: "2025-01-01"},
		{Code: "SUP-02", Name: "Lanka Electricals", Email: "orders@lanka.example", Address: "4 Station Lane", TP1: "0117654321", Date: "2025-01-01"},
	}
	n := 0
	for _, row := range rows {
		_, err := s.suppliers.Create(ctx, row)
		inserted, err := skipDuplicate(err)
		if err != nil {
			return n, err
		}
		if inserted {
			n++
		}
	}
	return n, nil
}

func (s seeder) seedItems(ctx context.Context) (int, error) {
	rows := []items.Item{
		{ItemCode: "HW-001", Category: "HW", Description: "Hex bolt M8", UnitPrice: "12.50", Unit: "pcs", RackNumber: "A1", Supplier: "Acme Traders", ReOrder: "50"},
		{ItemCode: "HW-002", Category: "HW", Description: "Washer M8", UnitPrice: "2", Unit: "pcs", RackNumber: "A1", Supplier: "Acme Traders", ReOrder: "5"},
		{ItemCode: "EL-001", Category: "EL", Description: "Cable 2.5mm", UnitPrice: "180", Unit: "m", RackNumber: "C3", Supplier: "Lanka Electricals", ReOrder: "20"},
	}
	n := 0
	for _, row := range rows {
		_, err := s.items.Create(ctx, row, nil)
		inserted, err := skipDuplicate(err)
		if err != nil {
			return n, err
		}
		if inserted {
			n++
		}
	}
	return n, nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo categories, departments, suppliers and items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()
			return seeder{
				categories:  categories.NewService(categories.NewRepository(e.pool)),
				departments: departments.NewService(departments.NewRepository(e.pool)),
				suppliers:   suppliers.NewService(suppliers.NewRepository(e.pool)),
				items:       items.NewService(items.NewRepository(e.pool), nil, e.logger),
				out:         cmd.OutOrStdout(),
			}.run(cmd.Context())
		},
	}
}
