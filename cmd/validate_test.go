package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ikulkarni/portfolio/internal/content"
)

func TestMissingAssets(t *testing.T) {
	cat := content.NewCatalog([]content.BusinessCase{{
		ID:    1,
		Title: "Graphs",
		Sections: []content.Section{{
			Heading: "Enhancements",
			SubSections: []content.Enhancement{
				{Name: "DAG", Code: "all_codes/1/dag.cpp", Image: "dag.png"},
				{Name: "Trie", Code: "all_codes/1/trie.cpp"},
			},
		}},
	}}, content.Profile{})

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "all_codes", "1"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "all_codes", "1", "dag.cpp"), []byte("// dag"), 0o644); err != nil {
		t.Fatal(err)
	}

	missing := missingAssets(cat, dir)
	if len(missing) != 2 {
		t.Fatalf("missing = %+v, want image and trie listing", missing)
	}
	if missing[0].Kind != "image" || missing[1].Path != "all_codes/1/trie.cpp" {
		t.Errorf("missing = %+v", missing)
	}
}

func TestShippedContentAssetsPresent(t *testing.T) {
	lib, err := content.Open("")
	if err != nil {
		t.Fatalf("content.Open: %v", err)
	}
	if missing := missingAssets(lib.Catalog(), filepath.Join("..", "public")); len(missing) != 0 {
		t.Errorf("%d referenced assets missing, first: %+v", len(missing), missing[0])
	}
}

func TestMissingCV(t *testing.T) {
	cat := content.NewCatalog(nil, content.Profile{CV: content.CV{Path: "/files/cv.pdf", Label: "CV"}})
	missing := missingAssets(cat, t.TempDir())
	if len(missing) != 1 || missing[0].Kind != "cv" || missing[0].Path != "files/cv.pdf" {
		t.Errorf("missing = %+v, want the CV", missing)
	}
}
