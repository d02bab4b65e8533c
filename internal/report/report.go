// Package report renders inventory reports from read-only store queries:
// a plain-text summary and an XLSX export of the same rows.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"supplytrack/internal/models"
	"supplytrack/internal/store"
)

var nowFn = time.Now

// Source labels where the inventory currently persists, e.g. "PostgreSQL
// Database" or "Local Files".
type Source string

const (
	SourceDatabase Source = "PostgreSQL Database"
	SourceFiles    Source = "Local Files"
)

// SourceFor maps a backend name to its report label.
func SourceFor(backendName string) Source {
	if backendName == "postgres" {
		return SourceDatabase
	}
	return SourceFiles
}

// WriteText renders the plain-text inventory report to w.
func WriteText(w io.Writer, items []*models.Equipment, source Source) error {
	now := nowFn()

	lowStock := 0
	for _, item := range items {
		if store.StatusOf(item) == models.StockLow {
			lowStock++
		}
	}

	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("TACTICAL SUPPLY INVENTORY REPORT\n")
	p("Generated: %s\n", now.Format(time.ANSIC))
	p("Data Source: %s\n", source)
	p("================================\n\n")

	p("INVENTORY SUMMARY:\n")
	p("Total Items: %d\n", len(items))
	p("Items requiring resupply: %d\n\n", lowStock)

	p("DETAILED INVENTORY:\n")
	for _, item := range items {
		p("ID: %d | %s | Qty: %d %s | Location: %s | Status: %s | Class: %s\n",
			item.ID, item.Name, item.Quantity, item.Unit,
			item.Location, store.StatusOf(item), item.Classification)
	}

	return err
}

// ExportText writes the plain-text report to path, replacing any previous
// report.
func ExportText(path string, items []*models.Equipment, source Source) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteText(f, items, source); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
