package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"gopkg.in/yaml.v3"
)

func TestLoadEmbedded(t *testing.T) {
	cat, err := Load(Embedded())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 11 {
		t.Fatalf("cases = %d, want 11", cat.Len())
	}
	if cat.Profile.Name == "" {
		t.Error("profile name is empty")
	}

	// Source order is display order, even where ids are out of sequence.
	if cat.Cases[7].ID != 9 || cat.Cases[8].ID != 8 {
		t.Errorf("positions 7,8 = ids %d,%d, want 9,8", cat.Cases[7].ID, cat.Cases[8].ID)
	}
	if got := cat.IndexOf(8); got != 8 {
		t.Errorf("IndexOf(8) = %d, want 8", got)
	}
}

func TestItemDecoding(t *testing.T) {
	src := `
- plain paragraph
- text: Topological sorting
  link: https://example.com/topo
`
	var items []Item
	if err := yaml.Unmarshal([]byte(src), &items); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Kind != KindText || items[0].Text != "plain paragraph" {
		t.Errorf("items[0] = %+v, want text item", items[0])
	}
	if items[1].Kind != KindLink || items[1].URL != "https://example.com/topo" {
		t.Errorf("items[1] = %+v, want link item", items[1])
	}
}

func TestItemDecodingRejectsOtherShapes(t *testing.T) {
	tests := map[string]string{
		"sequence":     "- [a, b]\n",
		"missing link": "- text: no target\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			var items []Item
			if err := yaml.Unmarshal([]byte(src), &items); err == nil {
				t.Errorf("expected error for %q", src)
			}
		})
	}
}

func TestItemRoundTripShape(t *testing.T) {
	out, err := yaml.Marshal([]Item{Text("a"), Link("b", "https://b")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), "link: https://b") {
		t.Errorf("marshalled link lost its shape:\n%s", out)
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	cases := []BusinessCase{
		{ID: 8, Title: "first"},
		{ID: 9, Title: "second"},
		{ID: 8, Title: "third"},
		{ID: 0, Title: ""},
	}
	err := Validate(cases)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"duplicate id 8", "id must be positive", "empty title"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestValidateAllowsOutOfOrderIDs(t *testing.T) {
	cases := []BusinessCase{{ID: 9, Title: "a"}, {ID: 8, Title: "b"}}
	if err := Validate(cases); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFailsOnDuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		CasesFile:   {Data: []byte("- id: 1\n  title: a\n- id: 1\n  title: b\n")},
		ProfileFile: {Data: []byte("name: x\n")},
	}
	if _, err := Load(fsys); err == nil || !strings.Contains(err.Error(), "duplicate id 1") {
		t.Errorf("Load err = %v, want duplicate id error", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	fsys := fstest.MapFS{
		CasesFile:   {Data: []byte("- id: 1\n  title: a\n  subtitle: nope\n")},
		ProfileFile: {Data: []byte("name: x\n")},
	}
	if _, err := Load(fsys); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestIntro(t *testing.T) {
	bc := BusinessCase{Sections: []Section{{
		Heading: "Introduction",
		Content: []Item{Text("one"), Link("ref", "https://x"), Text("two")},
	}}}
	got := bc.Intro()
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("Intro() = %v, want [one two]", got)
	}
	if (BusinessCase{}).Intro() != nil {
		t.Error("Intro of empty case should be nil")
	}
}

func TestCatalogLookup(t *testing.T) {
	cat := NewCatalog([]BusinessCase{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, Profile{})
	bc, err := cat.Case(2)
	if err != nil || bc.Title != "b" {
		t.Errorf("Case(2) = %+v, %v", bc, err)
	}
	if _, err := cat.Case(3); err != ErrNotFound {
		t.Errorf("Case(3) err = %v, want ErrNotFound", err)
	}
	if cat.IndexOf(3) != -1 {
		t.Error("IndexOf(3) should be -1")
	}
}

func TestAssetRefs(t *testing.T) {
	cat := NewCatalog([]BusinessCase{{
		ID: 1, Title: "a",
		Sections: []Section{{Heading: "h", SubSections: []Enhancement{
			{Name: "DAG", Code: "all_codes/1/dag.cpp", Image: "dag.png"},
			{Name: "Plain"},
		}}},
	}}, Profile{})
	refs := AssetRefs(cat)
	if len(refs) != 2 {
		t.Fatalf("refs = %d, want 2", len(refs))
	}
	if refs[0].Path != "all_codes/1/dag.cpp" || refs[1].Path != "images/dag.png" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestLibraryReload(t *testing.T) {
	dir := t.TempDir()
	write := func(cases string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, CasesFile), []byte(cases), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ProfileFile), []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	write("- id: 1\n  title: first\n")

	lib, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	write("- id: 1\n  title: second\n")
	if err := lib.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := lib.Catalog().Cases[0].Title; got != "second" {
		t.Errorf("title = %q, want second", got)
	}

	write("- id: 1\n  title: a\n- id: 1\n  title: b\n")
	if err := lib.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if got := lib.Catalog().Cases[0].Title; got != "second" {
		t.Errorf("failed reload replaced catalog: title = %q", got)
	}
}

func TestAssetRefsIncludeCV(t *testing.T) {
	cat := NewCatalog(nil, Profile{CV: CV{Path: "/files/cv.pdf", Label: "Download CV"}})
	refs := AssetRefs(cat)
	if len(refs) != 1 || refs[0].Kind != "cv" || refs[0].Path != "files/cv.pdf" {
		t.Errorf("refs = %+v", refs)
	}
	if refs := AssetRefs(NewCatalog(nil, Profile{})); len(refs) != 0 {
		t.Errorf("refs without CV = %+v", refs)
	}
}
