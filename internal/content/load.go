package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	CasesFile   = "business_cases.yaml"
	ProfileFile = "profile.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

// Embedded returns the content compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load reads and validates both content files from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var cases []BusinessCase
	if err := decodeFile(fsys, CasesFile, &cases); err != nil {
		return nil, err
	}
	if err := Validate(cases); err != nil {
		return nil, fmt.Errorf("validating %s: %w", CasesFile, err)
	}

	var profile Profile
	if err := decodeFile(fsys, ProfileFile, &profile); err != nil {
		return nil, err
	}

	return NewCatalog(cases, profile), nil
}

func decodeFile(fsys fs.FS, name string, v interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Validate checks the invariants the pages rely on. Every problem is
// reported, not just the first one.
func Validate(cases []BusinessCase) error {
	var errs []error
	seen := make(map[int]int, len(cases))
	for i, bc := range cases {
		if bc.ID <= 0 {
			errs = append(errs, fmt.Errorf("case #%d: id must be positive, got %d", i, bc.ID))
		} else if prev, dup := seen[bc.ID]; dup {
			errs = append(errs, fmt.Errorf("case #%d: duplicate id %d (first used by case #%d)", i, bc.ID, prev))
		} else {
			seen[bc.ID] = i
		}
		if strings.TrimSpace(bc.Title) == "" {
			errs = append(errs, fmt.Errorf("case %d: empty title", bc.ID))
		}
		for j, sec := range bc.Sections {
			if strings.TrimSpace(sec.Heading) == "" {
				errs = append(errs, fmt.Errorf("case %d section #%d: empty heading", bc.ID, j))
			}
			for _, it := range sec.Content {
				if it.Kind == KindLink && it.URL == "" {
					errs = append(errs, fmt.Errorf("case %d section %q: link %q has no url", bc.ID, sec.Heading, it.Text))
				}
			}
			for _, enh := range sec.SubSections {
				if strings.TrimSpace(enh.Name) == "" {
					errs = append(errs, fmt.Errorf("case %d section %q: enhancement without a name", bc.ID, sec.Heading))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// AssetRef is a path under the public directory referenced by content.
type AssetRef struct {
	CaseID int // 0 for profile assets
	Name   string
	Path   string
	Kind   string // "code", "image" or "cv"
}

// AssetRefs lists every code listing and image the cases point at, in
// display order, followed by the CV when the profile has one.
func AssetRefs(c *Catalog) []AssetRef {
	var refs []AssetRef
	for _, bc := range c.Cases {
		for _, sec := range bc.Sections {
			for _, enh := range sec.SubSections {
				if enh.Code != "" {
					refs = append(refs, AssetRef{CaseID: bc.ID, Name: enh.Name, Path: enh.Code, Kind: "code"})
				}
				if enh.Image != "" {
					refs = append(refs, AssetRef{CaseID: bc.ID, Name: enh.Name, Path: ImagePath(enh.Image), Kind: "image"})
				}
			}
		}
	}
	if p := c.Profile.CV.Path; p != "" {
		refs = append(refs, AssetRef{Name: c.Profile.CV.Label, Path: strings.TrimPrefix(p, "/"), Kind: "cv"})
	}
	return refs
}

// ImagePath maps an enhancement image name to its location under public/.
func ImagePath(name string) string {
	if strings.Contains(name, "/") {
		return strings.TrimPrefix(name, "/")
	}
	return "images/" + name
}
