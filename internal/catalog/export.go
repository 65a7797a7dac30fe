package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/smartpos/backoffice/internal/domain"
)

// Export column orders are fixed so repeated exports diff cleanly. The
// sub-documents are flattened with the same column names the importer reads,
// making an export round-trippable.
var productExportColumns = []string{
	"id", "sku", "name", "categoryId", "categoryCode", "categoryName",
	"price", "cost", "stock", "reorderLevel", "unit", "barcode", "description",
	"tags", "status", "isActive",
	"seoTitle", "seoDescription", "seoKeywords", "seoSlug",
	"imageOriginal", "imageThumbnail", "imageAltText", "imageMimeType",
	"imageWidth", "imageHeight", "imageSize",
}

var categoryExportColumns = []string{
	"id", "code", "name", "description", "displayOrder", "status", "isActive",
	"seoTitle", "seoDescription", "seoKeywords", "seoSlug",
	"imageOriginal", "imageThumbnail", "imageAltText", "imageMimeType",
	"imageWidth", "imageHeight", "imageSize",
}

// Exporter renders catalog snapshots as CSV or XLSX documents.
type Exporter struct {
	products   ProductStore
	categories CategoryStore
}

func NewExporter(products ProductStore, categories CategoryStore) *Exporter {
	return &Exporter{products: products, categories: categories}
}

func (e *Exporter) ProductsCSV(ctx context.Context) ([]byte, error) {
	rows, err := e.productRows(ctx)
	if err != nil {
		return nil, err
	}
	return writeCSV(productExportColumns, rows)
}

func (e *Exporter) ProductsXLSX(ctx context.Context) ([]byte, error) {
	rows, err := e.productRows(ctx)
	if err != nil {
		return nil, err
	}
	return writeXLSX("Products", productExportColumns, rows)
}

func (e *Exporter) CategoriesCSV(ctx context.Context) ([]byte, error) {
	rows, err := e.categoryRows(ctx)
	if err != nil {
		return nil, err
	}
	return writeCSV(categoryExportColumns, rows)
}

func (e *Exporter) CategoriesXLSX(ctx context.Context) ([]byte, error) {
	rows, err := e.categoryRows(ctx)
	if err != nil {
		return nil, err
	}
	return writeXLSX("Categories", categoryExportColumns, rows)
}

func (e *Exporter) productRows(ctx context.Context) ([][]string, error) {
	products, err := e.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	categories, err := e.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		var categoryID, categoryCode, categoryName string
		if p.CategoryID != uuid.Nil {
			categoryID = p.CategoryID.String()
			if category, ok := byID[p.CategoryID]; ok {
				categoryCode = category.Code
				categoryName = category.Name
			}
		}
		rows = append(rows, append([]string{
			p.ID.String(), p.SKU, p.Name, categoryID, categoryCode, categoryName,
			formatFloat(p.Price), formatFloat(p.Cost),
			strconv.Itoa(p.Stock), strconv.Itoa(p.ReorderLevel),
			p.Unit, p.Barcode, p.Description,
			strings.Join(p.Tags, ", "), string(p.Status), strconv.FormatBool(p.IsActive),
		}, subDocCells(p.SEO, p.Image)...))
	}
	log.Printf("[export] rendered %d product rows", len(rows))
	return rows, nil
}

func (e *Exporter) categoryRows(ctx context.Context) ([][]string, error) {
	categories, err := e.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, append([]string{
			c.ID.String(), c.Code, c.Name, c.Description,
			strconv.Itoa(c.DisplayOrder), string(c.Status), strconv.FormatBool(c.IsActive),
		}, subDocCells(c.SEO, c.Image)...))
	}
	log.Printf("[export] rendered %d category rows", len(rows))
	return rows, nil
}

func subDocCells(seo domain.SEO, image domain.Image) []string {
	return []string{
		seo.Title, seo.Description, strings.Join(seo.Keywords, ", "), seo.Slug,
		image.Original, image.Thumbnail, image.AltText, image.MimeType,
		strconv.Itoa(image.Width), strconv.Itoa(image.Height), strconv.Itoa(image.Size),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func writeCSV(columns []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(columns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(sheet string, columns []string, rows [][]string) ([]byte, error) {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	if err := setRow(workbook, sheet, 1, columns); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := setRow(workbook, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(workbook *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return workbook.SetSheetRow(sheet, cell, &cells)
}
