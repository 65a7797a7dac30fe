package domain

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Organic Espresso Beans (500g)", "organic-espresso-beans-500g"},
		{"  Coffee & Beans!  ", "coffee-beans"},
		{"---", ""},
		{"already-slugged", "already-slugged"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if ParseStatus(" Published ") != StatusPublished {
		t.Errorf("published should parse case-insensitively")
	}
	for _, in := range []string{"draft", "archived", "", "publish"} {
		if ParseStatus(in) != StatusDraft {
			t.Errorf("ParseStatus(%q) should collapse to draft", in)
		}
	}
}

func TestAllowedImageMimeType(t *testing.T) {
	if !AllowedImageMimeType(" IMAGE/PNG ") {
		t.Errorf("png should be allowed")
	}
	if AllowedImageMimeType("application/pdf") {
		t.Errorf("pdf must not be allowed")
	}
}

func TestProductCaptureRestoreExcludesProvenance(t *testing.T) {
	p := NewProduct()
	p.Name = "Espresso"
	p.SKU = "ESP-500"
	p.Status = StatusPublished
	p.PublishedBy = "Ava"

	snapshot := p.Capture()
	p.Name = "Renamed"
	p.PublishedBy = "Bob"

	p.Restore(snapshot)
	if p.Name != "Espresso" {
		t.Errorf("name not restored: %q", p.Name)
	}
	if p.PublishedBy != "Bob" {
		t.Errorf("restore must not touch publish provenance, got %q", p.PublishedBy)
	}
}

func TestEnsureDefaultsFillsOnlyBlanks(t *testing.T) {
	p := NewProduct()
	p.Name = "Espresso"
	p.EnsureDefaults()
	if p.SEO.Title != "Espresso" || p.SEO.Slug != "espresso" {
		t.Errorf("seo defaults = %+v", p.SEO)
	}

	p.SEO.Title = "Hand Picked"
	p.EnsureDefaults()
	if p.SEO.Title != "Hand Picked" {
		t.Errorf("explicit title overwritten: %q", p.SEO.Title)
	}
	if p.SEO.Slug != "espresso" {
		t.Errorf("existing slug overwritten: %q", p.SEO.Slug)
	}
}
