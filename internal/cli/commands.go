package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"supplytrack/internal/models"
	"supplytrack/internal/report"
	"supplytrack/internal/store"
)

func (a *App) printItem(e *models.Equipment) {
	fmt.Fprintf(a.out, "ID: %d | %s | Qty: %d %s | Min: %d | Location: %s | Status: %s | Class: %s\n",
		e.ID, e.Name, e.Quantity, e.Unit, e.MinThreshold, e.Location,
		statusLabel(store.StatusOf(e)), e.Classification)
}

func (a *App) printRequest(r *models.SupplyRequest) {
	fmt.Fprintf(a.out, "REQ-%d | Equipment ID: %d | Qty: %d | Unit: %s | Priority: %s | Status: %s\n",
		r.ReqID, r.EquipmentID, r.RequestedQty, r.RequestingUnit, r.Priority, r.Status)
}

func (a *App) printErr(ctx context.Context, err error) {
	a.log.Debug(ctx, "command failed", "error", err)
	fmt.Fprintln(a.out, colorize(ansiRed, "Error: "+err.Error()))
}

// Add prompts for the fields of a new equipment record and creates it.
func (a *App) Add(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Equipment name", a.out)
	if err != nil {
		return err
	}
	desc, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	qty, err := GetInt(a.reader, "Quantity", 0, 1000000, a.out)
	if err != nil {
		return err
	}
	min, err := GetInt(a.reader, "Minimum threshold", 0, 1000000, a.out)
	if err != nil {
		return err
	}
	unit, err := GetSimpleText(a.reader, "Unit of measure (e.g. pcs)", a.out)
	if err != nil {
		return err
	}
	location, err := GetSimpleText(a.reader, "Storage location", a.out)
	if err != nil {
		return err
	}
	class, err := GetInt(a.reader, "Classification (0=UNCLASSIFIED 1=RESTRICTED 2=CONFIDENTIAL 3=SECRET)", 0, 3, a.out)
	if err != nil {
		return err
	}

	item, err := a.store.Create(ctx, models.EquipmentDraft{
		Name:           name,
		Description:    desc,
		Quantity:       qty,
		MinThreshold:   min,
		Unit:           unit,
		Location:       location,
		Classification: models.Classification(class),
	})
	if err != nil {
		a.printErr(ctx, err)
		return err
	}

	fmt.Fprintln(a.out, colorize(ansiGreen, fmt.Sprintf("Added equipment %q with ID %d.", item.Name, item.ID)))
	return nil
}

// Find prompts for a search term and lists matching records.
func (a *App) Find(ctx context.Context) error {
	term, err := GetSimpleText(a.reader, "Search term", a.out)
	if err != nil {
		return err
	}

	matches := a.store.FindByName(term)
	if len(matches) == 0 {
		fmt.Fprintf(a.out, "No equipment matching %q.\n", term)
		return nil
	}
	for _, e := range matches {
		a.printItem(e)
	}
	return nil
}

// List prints every equipment record.
func (a *App) List(context.Context) error {
	items := a.store.ListAll()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Inventory is empty.")
		return nil
	}
	for _, e := range items {
		a.printItem(e)
	}
	fmt.Fprintf(a.out, "Total: %d items\n", len(items))
	return nil
}

// Update prompts for an equipment ID and a new quantity.
func (a *App) Update(ctx context.Context) error {
	id, err := GetInt(a.reader, "Equipment ID", 1, 1000000, a.out)
	if err != nil {
		return err
	}
	qty, err := GetInt(a.reader, "New quantity", 0, 1000000, a.out)
	if err != nil {
		return err
	}

	item, err := a.store.UpdateQuantity(ctx, id, qty)
	if err != nil {
		a.printErr(ctx, err)
		return err
	}

	fmt.Fprintln(a.out, colorize(ansiGreen, fmt.Sprintf("Updated %s to quantity %d.", item.Name, item.Quantity)))
	a.printItem(item)
	return nil
}

// Request prompts for the fields of a new supply request and files it.
func (a *App) Request(ctx context.Context) error {
	id, err := GetInt(a.reader, "Equipment ID", 1, 1000000, a.out)
	if err != nil {
		return err
	}
	qty, err := GetInt(a.reader, "Requested quantity", 1, 1000000, a.out)
	if err != nil {
		return err
	}
	unit, err := GetSimpleText(a.reader, "Requesting unit", a.out)
	if err != nil {
		return err
	}
	prio, err := GetInt(a.reader, "Priority (1=LOW 2=NORMAL 3=HIGH 4=CRITICAL)", 1, 4, a.out)
	if err != nil {
		return err
	}

	req, err := a.store.CreateRequest(ctx, models.RequestDraft{
		EquipmentID:    id,
		RequestedQty:   qty,
		RequestingUnit: unit,
		Priority:       models.Priority(prio),
	})
	if err != nil {
		a.printErr(ctx, err)
		return err
	}

	fmt.Fprintln(a.out, colorize(ansiGreen, fmt.Sprintf("Supply request REQ-%d filed.", req.ReqID)))
	return nil
}

// Requests prints every supply request.
func (a *App) Requests(context.Context) error {
	requests := a.store.ListRequests()
	if len(requests) == 0 {
		fmt.Fprintln(a.out, "No supply requests.")
		return nil
	}
	for _, r := range requests {
		a.printRequest(r)
	}
	fmt.Fprintf(a.out, "Total: %d requests\n", len(requests))
	return nil
}

// LowStock prints the records at or below their minimum threshold.
func (a *App) LowStock(context.Context) error {
	alerts := 0
	for e := range a.store.ListLowStock() {
		a.printItem(e)
		alerts++
	}
	if alerts == 0 {
		fmt.Fprintln(a.out, colorize(ansiGreen, "All equipment levels are adequate."))
	} else {
		fmt.Fprintln(a.out, colorize(ansiRed, fmt.Sprintf("Total items requiring resupply: %d", alerts)))
	}
	return nil
}

// Export writes the text report and the spreadsheet next to it.
func (a *App) Export(ctx context.Context) error {
	items := a.store.ListAll()

	txtPath := a.reportPath()
	if err := report.ExportText(txtPath, items, a.source); err != nil {
		a.printErr(ctx, err)
		return err
	}

	xlsxPath := strings.TrimSuffix(txtPath, filepath.Ext(txtPath)) + ".xlsx"
	if err := report.ExportXLSX(xlsxPath, items); err != nil {
		a.printErr(ctx, err)
		return err
	}

	a.sink.Record(ctx, "Inventory report exported")
	fmt.Fprintln(a.out, colorize(ansiGreen, fmt.Sprintf("Report exported to %q and %q.", txtPath, xlsxPath)))
	return nil
}
