package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

const (
	exportSheet       = "Inventory"
	defaultExportRows = 10000
)

var exportHeader = []string{
	"Lab", "PC", "Name", "Kind", "Unique ID",
	"Status", "Updated By", "Updated At", "Reason", "Remark",
}

var exportColumnWidths = []float64{18, 20, 25, 12, 30, 12, 15, 20, 30, 30}

// ExportWorkbook builds the inventory spreadsheet: one row per peripheral
// with its lab, PC, and status fields. The caller owns the returned file
// and must Close it after writing.
func (s *Service) ExportWorkbook(ctx context.Context) (*excelize.File, error) {
	labs, err := s.labs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	labNames := make(map[uuid.UUID]string, len(labs))
	for _, l := range labs {
		labNames[l.ID] = l.Name
	}

	pcs, err := s.pcs.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list pcs: %w", err)
	}
	pcByID := make(map[uuid.UUID]domain.PC, len(pcs))
	for _, pc := range pcs {
		pcByID[pc.ID] = pc
	}

	peripherals, err := s.allPeripherals(ctx)
	if err != nil {
		return nil, err
	}

	labOf := func(p domain.Peripheral) string {
		pc := pcByID[p.PCID]
		if pc.LabID == nil {
			return ""
		}
		return labNames[*pc.LabID]
	}
	sort.Slice(peripherals, func(i, j int) bool {
		li, lj := labOf(peripherals[i]), labOf(peripherals[j])
		if li != lj {
			return li < lj
		}
		hi, hj := pcByID[peripherals[i].PCID].Hostname, pcByID[peripherals[j].PCID].Hostname
		if hi != hj {
			return hi < hj
		}
		return peripherals[i].Name < peripherals[j].Name
	})

	f := excelize.NewFile()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(exportSheet, name, name, exportColumnWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, p := range peripherals {
		pc := pcByID[p.PCID]
		values := []any{
			labOf(p),
			pc.Hostname,
			p.Name,
			string(p.Kind),
			p.UniqueID,
			optionalStatus(p.Status),
			optionalString(p.StatusUpdatedBy),
			optionalTime(p.StatusUpdatedAt),
			optionalString(p.StatusReason),
			optionalString(p.Remark),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze header row: %w", err)
	}

	s.log.InfoContext(ctx, "inventory exported", slog.Int("rows", len(peripherals)))

	return f, nil
}

// allPeripherals pages through the filtered list until exhausted or the
// configured row limit is reached; the list repo caps single pages.
func (s *Service) allPeripherals(ctx context.Context) ([]domain.Peripheral, error) {
	const pageSize = 200

	limit := s.exportRowLimit()
	filter := domain.PeripheralFilter{Limit: pageSize}
	var all []domain.Peripheral
	for {
		page, _, err := s.peripherals.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list peripherals: %w", err)
		}
		all = append(all, page...)
		if len(all) > limit {
			s.log.WarnContext(ctx, "export truncated at row limit", slog.Int("limit", limit))
			return all[:limit], nil
		}
		if len(page) < pageSize {
			return all, nil
		}
		filter.Offset += pageSize
	}
}

func optionalStatus(s *domain.PeripheralStatus) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
