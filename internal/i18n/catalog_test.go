package i18n

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return catalog
}

func TestMatchLocales(t *testing.T) {
	catalog := loadCatalog(t)

	tests := []struct {
		name           string
		acceptLanguage string
		wantTag        language.Tag
	}{
		{"exact english", "en-US", language.AmericanEnglish},
		{"spanish", "es-ES", language.MustParse("es-ES")},
		{"spanish region variant", "es-MX", language.MustParse("es-ES")},
		{"french with quality", "fr-FR;q=0.9, de;q=0.8", language.MustParse("fr-FR")},
		{"turkish", "tr", language.MustParse("tr-TR")},
		{"unknown falls back to english", "ja-JP", language.AmericanEnglish},
		{"empty header falls back", "", language.AmericanEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := catalog.Match(tt.acceptLanguage)
			if msgs.Tag() != tt.wantTag {
				t.Errorf("Match(%q) = %v, want %v", tt.acceptLanguage, msgs.Tag(), tt.wantTag)
			}
		})
	}
}

func TestGetLocalizedMessage(t *testing.T) {
	catalog := loadCatalog(t)

	en := catalog.Match("en-US").Get("empty_file")
	es := catalog.Match("es-ES").Get("empty_file")

	if en == "" || es == "" {
		t.Fatal("empty_file missing from a catalog")
	}
	if en == es {
		t.Error("en-US and es-ES return the same string for empty_file")
	}
}

func TestFormatSubstitutesPlaceholders(t *testing.T) {
	msgs := loadCatalog(t).Match("en-US")

	got := msgs.Format("missing_key_for_upsert", map[string]string{"keyField": "sku"})
	if !strings.Contains(got, `"sku"`) {
		t.Errorf("Format = %q, want key field substituted", got)
	}
	if strings.Contains(got, "{keyField}") {
		t.Errorf("Format = %q, placeholder left unsubstituted", got)
	}
}

func TestFormatMissingParamYieldsEmpty(t *testing.T) {
	msgs := loadCatalog(t).Match("en-US")

	got := msgs.Format("missing_key_for_upsert", nil)
	if strings.Contains(got, "{") {
		t.Errorf("Format = %q, placeholder syntax leaked", got)
	}
}

func TestAllCatalogsShareKeySet(t *testing.T) {
	catalog := loadCatalog(t)
	reference := catalog.tables[language.AmericanEnglish]

	for tag, table := range catalog.tables {
		if tag == language.AmericanEnglish {
			continue
		}
		for key := range reference {
			if _, ok := table[key]; !ok {
				t.Errorf("locale %v missing key %q", tag, key)
			}
		}
		for key := range table {
			if _, ok := reference[key]; !ok {
				t.Errorf("locale %v has extra key %q", tag, key)
			}
		}
	}
}
