package inventory

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice.GO/core/apperr"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	"backoffice.GO/model/repository/uow"
)

// ImportResult holds counters from an import run.
type ImportResult struct {
	TotalRows int           `json:"total_rows"`
	Imported  int           `json:"imported"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	RowErrors []RowError    `json:"row_errors,omitempty"`
	TotalTime time.Duration `json:"total_time"`
}

// ExportCSV writes the ingredients in scope as CSV. The name column is
// always quoted.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := s.uow.Repos().Ingredients.ListByOutlets(ctx, scopeOutlets(ctx))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(CSVHeader, ",") + "\n")
	for _, ing := range items {
		fields := []string{
			csvField(ing.ID),
			`"` + strings.ReplaceAll(ing.Name, `"`, `""`) + `"`,
			csvField(ing.SKU),
			csvField(ing.Category),
			ing.Stock.String(),
			csvField(ing.Unit),
			ing.MinStock.String(),
			ing.AvgCost.String(),
		}
		bw.WriteString(strings.Join(fields, ",") + "\n")
	}
	return bw.Flush()
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// ImportCSV upserts ingredients of the active outlet by SKU: existing ones
// get stock and average cost from the file, unknown SKUs are created.
// Malformed rows are skipped and reported.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	start := time.Now()
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, apperr.Validation("file", "read CSV header: %v", err)
	}
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}
	if !containsHeader(headers, "sku") {
		return nil, apperr.Validation("file", "CSV must contain a 'SKU' column")
	}

	result := &ImportResult{}
	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.TotalRows++
			result.Skipped++
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err.Error()})
			continue
		}
		result.TotalRows++
		values := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				values[h] = record[i]
			}
		}
		row, err := ParseRow(values)
		if err != nil {
			result.Skipped++
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err.Error()})
			continue
		}
		rows = append(rows, row)
	}

	outlet := s.outletOf(ctx)
	actor := actorOf(ctx)
	err = s.uow.Do(ctx, func(r *uow.Repos) error {
		for _, row := range rows {
			created, err := s.upsertRow(ctx, r, outlet, actor, row)
			if err != nil {
				return fmt.Errorf("sku %s: %w", row.SKU, err)
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Imported = result.Created + result.Updated
	result.TotalTime = time.Since(start)
	s.log.Info("ingredients imported",
		zap.String("outlet_id", outlet),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *Service) upsertRow(ctx context.Context, r *uow.Repos, outlet, actor string, row Row) (bool, error) {
	ing, err := r.Ingredients.FindBySKU(ctx, outlet, row.SKU)
	if err != nil {
		return false, err
	}
	if ing == nil {
		return true, r.Ingredients.Create(ctx, &inventoryEntity.Ingredient{
			ID:       uuid.NewString(),
			OutletID: outlet,
			Name:     row.Name,
			SKU:      row.SKU,
			Category: row.Category,
			Stock:    row.Stock,
			Unit:     row.Unit,
			MinStock: row.MinStock,
			AvgCost:  row.AvgCost,
			Type:     inventoryEntity.TypeRaw,
		})
	}
	if !ing.Stock.Equal(row.Stock) {
		if err := r.Ingredients.SetStock(ctx, ing.ID, row.Stock); err != nil {
			return false, err
		}
		if err := r.Movements.RecordAdjustment(ctx, &inventoryEntity.StockAdjustment{
			IngredientID: ing.ID,
			OldStock:     ing.Stock,
			NewStock:     row.Stock,
			Variance:     row.Stock.Sub(ing.Stock),
			Reason:       inventoryEntity.ReasonKoreksi,
			Note:         "CSV import",
			Actor:        actor,
			CreatedAt:    s.now(),
		}); err != nil {
			return false, err
		}
	}
	if !ing.AvgCost.Equal(row.AvgCost) {
		if err := r.Ingredients.SetAvgCost(ctx, ing.ID, row.AvgCost); err != nil {
			return false, err
		}
	}
	return false, nil
}

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
