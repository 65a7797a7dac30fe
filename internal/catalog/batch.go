package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"github.com/smartpos/backoffice/internal/domain"
)

// RowError reports one failed batch row. Failures are isolated: other rows
// are unaffected.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BatchSummary is the outcome of one batch reconciliation.
type BatchSummary struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors"`
}

type rowOutcome int

const (
	rowCreated rowOutcome = iota
	rowUpdated
	rowSkipped
)

// BulkUpsert reconciles loosely-typed items against the store. Existing
// entities are matched by explicit id first, then by natural key; matches are
// always overwritten. Items are numbered from 1 in row errors. Status fields
// are honored only when the authority can publish.
func (s *Service[S, E]) BulkUpsert(ctx context.Context, items []RawInput, actor string, authority Authority) (BatchSummary, error) {
	summary := BatchSummary{Errors: []RowError{}}
	pipeline, err := s.cfg.PrepareBatch(ctx)
	if err != nil {
		return summary, fmt.Errorf("prepare batch: %w", err)
	}
	opts := NormalizeOptions{AllowStatus: authority != nil && authority.CanPublish()}
	for i, raw := range items {
		row := i + 1
		outcome, err := s.reconcileRow(ctx, pipeline, raw, opts, actor, domain.ActionBulk, "bulk upsert", true, true)
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}
		summary.tally(outcome)
	}
	log.Printf("[catalog] bulk upsert %ss: created=%d updated=%d skipped=%d errors=%d",
		strings.ToLower(s.cfg.Label), summary.Created, summary.Updated, summary.Skipped, len(summary.Errors))
	return summary, nil
}

// ImportCSV reconciles a CSV document. The first row is the header; data rows
// are numbered from 2 in row errors. Existing entities are matched by natural
// key only; matches are updated when overwrite is set and counted as skipped
// otherwise.
func (s *Service[S, E]) ImportCSV(ctx context.Context, csvText string, actor string, authority Authority, overwrite bool) (BatchSummary, error) {
	rows, err := parseCSVRows(csvText)
	if err != nil {
		return BatchSummary{Errors: []RowError{}}, domain.Validationf("Unable to parse CSV: %v", err)
	}
	return s.importRows(ctx, rows, actor, authority, overwrite, "csv import")
}

// ImportFile dispatches on the file extension: .csv and .xlsx are supported.
func (s *Service[S, E]) ImportFile(ctx context.Context, fileName string, data []byte, actor string, authority Authority, overwrite bool) (BatchSummary, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return s.ImportCSV(ctx, string(data), actor, authority, overwrite)
	case ".xlsx":
		rows, err := parseXLSXRows(data)
		if err != nil {
			return BatchSummary{Errors: []RowError{}}, domain.Validationf("Unable to parse file: %v", err)
		}
		return s.importRows(ctx, rows, actor, authority, overwrite, "xlsx import")
	default:
		return BatchSummary{Errors: []RowError{}}, domain.Validationf("Unsupported file type %q, expected .csv or .xlsx.", filepath.Ext(fileName))
	}
}

func (s *Service[S, E]) importRows(ctx context.Context, rows []map[string]string, actor string, authority Authority, overwrite bool, note string) (BatchSummary, error) {
	summary := BatchSummary{Errors: []RowError{}}
	pipeline, err := s.cfg.PrepareBatch(ctx)
	if err != nil {
		return summary, fmt.Errorf("prepare batch: %w", err)
	}
	opts := NormalizeOptions{AllowStatus: authority != nil && authority.CanPublish()}
	for i, cells := range rows {
		row := i + 2
		raw, err := pipeline.MapRow(cells)
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}
		outcome, err := s.reconcileRow(ctx, pipeline, raw, opts, actor, domain.ActionImported, note, false, overwrite)
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}
		summary.tally(outcome)
	}
	log.Printf("[catalog] import %ss: created=%d updated=%d skipped=%d errors=%d",
		strings.ToLower(s.cfg.Label), summary.Created, summary.Updated, summary.Skipped, len(summary.Errors))
	return summary, nil
}

// reconcileRow applies one batch row: match an existing entity, then create
// or update it with the row's version note. A skipped match appends no
// version entry.
func (s *Service[S, E]) reconcileRow(ctx context.Context, pipeline *BatchPipeline[E], raw RawInput, opts NormalizeOptions, actor string, action domain.Action, note string, matchByID, overwrite bool) (rowOutcome, error) {
	patch, err := pipeline.Normalize(ctx, raw, opts)
	if err != nil {
		return rowSkipped, err
	}
	existing, found, err := s.findExisting(ctx, raw, patch, matchByID)
	if err != nil {
		return rowSkipped, err
	}
	now := s.now()
	if found {
		if !overwrite {
			return rowSkipped, nil
		}
		state := existing.Lifecycle()
		patch.Apply(existing)
		existing.EnsureDefaults()
		if status, ok := patch.Status(); ok && status == domain.StatusPublished && state.PublishedAt == nil {
			at := now
			state.PublishedAt = &at
			state.PublishedBy = actor
		}
		state.LastEditedBy = actor
		AppendVersion[S](existing, action, actor, note, now)
		existing.Touch(now)
		if err := s.save(ctx, existing, patch.Key()); err != nil {
			return rowSkipped, err
		}
		return rowUpdated, nil
	}
	if err := patch.ValidateCreate(); err != nil {
		return rowSkipped, err
	}
	entity := s.cfg.New()
	patch.Apply(entity)
	entity.EnsureDefaults()
	state := entity.Lifecycle()
	if state.Status == domain.StatusPublished {
		at := now
		state.PublishedAt = &at
		state.PublishedBy = actor
	}
	state.LastEditedBy = actor
	AppendVersion[S](entity, action, actor, note, now)
	entity.Touch(now)
	if err := s.save(ctx, entity, patch.Key()); err != nil {
		return rowSkipped, err
	}
	return rowCreated, nil
}

// findExisting matches a row to a stored entity: explicit id first (bulk
// only), then natural key. A stale id that no longer resolves falls through
// to the key match.
func (s *Service[S, E]) findExisting(ctx context.Context, raw RawInput, patch Patch[E], matchByID bool) (E, bool, error) {
	var zero E
	if matchByID {
		if v, ok := raw["id"]; ok {
			if id, err := uuid.Parse(strings.TrimSpace(cast.ToString(v))); err == nil {
				entity, err := s.store.FindByID(ctx, id)
				if err == nil {
					return entity, true, nil
				}
				if !errors.Is(err, domain.ErrNotFound) {
					return zero, false, err
				}
			}
		}
	}
	if key := patch.Key(); key != "" {
		entity, err := s.store.FindByKey(ctx, key)
		if err == nil {
			return entity, true, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return zero, false, err
		}
	}
	return zero, false, nil
}

func (b *BatchSummary) tally(outcome rowOutcome) {
	switch outcome {
	case rowCreated:
		b.Created++
	case rowUpdated:
		b.Updated++
	case rowSkipped:
		b.Skipped++
	}
}

// parseCSVRows reads a headered CSV document into per-row cell maps. Cells
// are trimmed; ragged rows are padded or truncated to the header width.
func parseCSVRows(csvText string) ([]map[string]string, error) {
	csvText = strings.TrimPrefix(csvText, "\ufeff")
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, recordToCells(header, record))
	}
	return rows, nil
}

// parseXLSXRows reads the first sheet of a workbook the same way.
func parseXLSXRows(data []byte) ([]map[string]string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty document")
	}
	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		rows = append(rows, recordToCells(header, record))
	}
	return rows, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func recordToCells(header, record []string) map[string]string {
	cells := make(map[string]string, len(header))
	for i, column := range header {
		if column == "" {
			continue
		}
		if i < len(record) {
			cells[column] = strings.TrimSpace(record[i])
		} else {
			cells[column] = ""
		}
	}
	return cells
}
