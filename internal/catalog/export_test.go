package catalog

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
)

func TestProductsCSVExport(t *testing.T) {
	f := newFixture(t)
	raw := espressoInput()
	raw["tags"] = "coffee, organic"
	f.createProduct(t, raw)
	exporter := NewExporter(f.products, f.categories)

	data, err := exporter.ProductsCSV(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	header := records[0]
	for i, want := range productExportColumns {
		if header[i] != want {
			t.Fatalf("column %d = %q, want %q", i, header[i], want)
		}
	}

	row := make(map[string]string, len(header))
	for i, column := range header {
		row[column] = records[1][i]
	}
	if row["sku"] != "ESP-500" || row["categoryCode"] != "BEV" || row["categoryName"] != "Beverages" {
		t.Errorf("category columns not resolved: %+v", row)
	}
	if row["tags"] != "coffee, organic" {
		t.Errorf("tags = %q", row["tags"])
	}
	if row["price"] != "12.5" || row["status"] != "draft" || row["isActive"] != "true" {
		t.Errorf("scalar columns wrong: price=%q status=%q isActive=%q", row["price"], row["status"], row["isActive"])
	}
}

func TestCategoriesCSVExportRoundTrips(t *testing.T) {
	f := newFixture(t)
	exporter := NewExporter(f.products, f.categories)

	data, err := exporter.CategoriesCSV(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	summary, err := NewCategoryService(f.categories, f.products).
		ImportCSV(context.Background(), string(data), "Alice", stubAuthority{}, false)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if summary.Skipped != 1 || summary.Created != 0 {
		t.Fatalf("exported rows should match by code on re-import, summary = %+v", summary)
	}
}

func TestProductsXLSXExport(t *testing.T) {
	f := newFixture(t)
	f.createProduct(t, espressoInput())
	exporter := NewExporter(f.products, f.categories)

	data, err := exporter.ProductsXLSX(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	rows, err := parseXLSXRows(data)
	if err != nil {
		t.Fatalf("parse workbook: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0]["sku"] != "ESP-500" {
		t.Errorf("sku cell = %q", rows[0]["sku"])
	}
}
