package organizer_test

import (
	"errors"
	"testing"

	"tidy/internal/organizer"
)

func testRules() []organizer.Rule {
	return []organizer.Rule{
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png"}},
		{Name: "Documents", Extensions: []string{".pdf", ".txt", ".docx"}},
		{Name: "Archives", Extensions: []string{".zip", ".tar", ".gz"}},
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	categories, err := organizer.NewCategoryMap(testRules())
	if err != nil {
		t.Fatalf("NewCategoryMap: %v", err)
	}
	for _, name := range []string{"a.jpg", "a.JPG", "a.Jpg"} {
		if got := categories.Classify(name); got != "Images" {
			t.Errorf("Classify(%q) = %q, want Images", name, got)
		}
	}
}

func TestClassifyFallsBackToOthers(t *testing.T) {
	categories, err := organizer.NewCategoryMap(testRules())
	if err != nil {
		t.Fatalf("NewCategoryMap: %v", err)
	}
	cases := map[string]string{
		"notes.txt":    "Documents",
		"photo.jpeg":   "Images",
		"rolls.tar.gz": "Archives",
		"mystery.xyz":  organizer.CategoryOthers,
		"README":       organizer.CategoryOthers,
		".bashrc":      organizer.CategoryOthers,
		".config.pdf":  "Documents",
	}
	for name, want := range cases {
		if got := categories.Classify(name); got != want {
			t.Errorf("Classify(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestClassifyEmptyMap(t *testing.T) {
	categories, err := organizer.NewCategoryMap(nil)
	if err != nil {
		t.Fatalf("NewCategoryMap: %v", err)
	}
	if got := categories.Classify("a.jpg"); got != organizer.CategoryOthers {
		t.Fatalf("Classify with empty map = %q, want Others", got)
	}
}

func TestLastRegisteredRuleWins(t *testing.T) {
	categories, err := organizer.NewCategoryMap([]organizer.Rule{
		{Name: "Code", Extensions: []string{".json", ".go"}},
		{Name: "Data", Extensions: []string{".json", ".csv"}},
	})
	if err != nil {
		t.Fatalf("NewCategoryMap: %v", err)
	}
	if got := categories.Classify("payload.json"); got != "Data" {
		t.Fatalf("Classify(payload.json) = %q, want Data", got)
	}
	if got := categories.Extensions("Code"); len(got) != 1 || got[0] != ".go" {
		t.Fatalf("Extensions(Code) = %v, want [.go]", got)
	}
}

func TestNewCategoryMapRejectsBadRules(t *testing.T) {
	cases := []struct {
		name  string
		rules []organizer.Rule
	}{
		{"empty name", []organizer.Rule{{Name: "  ", Extensions: []string{".a"}}}},
		{"missing dot", []organizer.Rule{{Name: "Images", Extensions: []string{"jpg"}}}},
		{"bare dot", []organizer.Rule{{Name: "Images", Extensions: []string{"."}}}},
		{"path separator", []organizer.Rule{{Name: "Images", Extensions: []string{"./jpg"}}}},
		{"duplicate category", []organizer.Rule{
			{Name: "Images", Extensions: []string{".jpg"}},
			{Name: "Images", Extensions: []string{".png"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := organizer.NewCategoryMap(tc.rules); !errors.Is(err, organizer.ErrConfig) {
				t.Fatalf("NewCategoryMap error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestIsCategory(t *testing.T) {
	categories, err := organizer.NewCategoryMap(testRules())
	if err != nil {
		t.Fatalf("NewCategoryMap: %v", err)
	}
	if !categories.IsCategory("Images") {
		t.Error("Images should be a category")
	}
	if !categories.IsCategory(organizer.CategoryOthers) {
		t.Error("Others should always be a category")
	}
	if categories.IsCategory("Downloads") {
		t.Error("Downloads should not be a category")
	}
}

func TestExtensionOf(t *testing.T) {
	cases := map[string]string{
		"a.JPG":        ".jpg",
		"archive.tar":  ".tar",
		"a.tar.gz":     ".gz",
		"README":       "",
		".bashrc":      "",
		".config.json": ".json",
		"trailing.":    "",
	}
	for name, want := range cases {
		if got := organizer.ExtensionOf(name); got != want {
			t.Errorf("ExtensionOf(%q) = %q, want %q", name, got, want)
		}
	}
}
