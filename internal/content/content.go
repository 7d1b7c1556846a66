package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/neexbeast/travel-guide/internal/catalog"
	"github.com/neexbeast/travel-guide/internal/chat"
)

//go:embed seed/catalog.yaml
var seed embed.FS

const seedFile = "seed/catalog.yaml"

// Document is the on-disk shape of a content file.
type Document struct {
	Destinations []catalog.Destination       `yaml:"destinations" validate:"min=1,dive"`
	Places       map[string]catalog.PlaceSet `yaml:"places" validate:"dive"`
	Chat         chat.Responses              `yaml:"chat"`
}

// Content is a validated catalog plus the chat rule table.
type Content struct {
	Catalog   *catalog.Catalog
	Responses chat.Responses
}

// Load reads content from path, or from the embedded seed when path is empty.
func Load(path string) (*Content, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = seed.ReadFile(seedFile)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading content file %q: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading content %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML content document. Places without an
// explicit category inherit the category of the bucket they are listed in.
func Parse(data []byte) (*Content, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing content YAML: %w", err)
	}

	for id, set := range doc.Places {
		doc.Places[id] = fillCategories(set)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validating content: %w", err)
	}
	if err := checkIdentity(doc); err != nil {
		return nil, err
	}

	if doc.Places == nil {
		doc.Places = map[string]catalog.PlaceSet{}
	}

	return &Content{
		Catalog:   &catalog.Catalog{Destinations: doc.Destinations, Places: doc.Places},
		Responses: doc.Chat,
	}, nil
}

func fillCategories(set catalog.PlaceSet) catalog.PlaceSet {
	set.Attractions = withCategory(set.Attractions, catalog.CategoryAttraction)
	set.Food = withCategory(set.Food, catalog.CategoryFood)
	set.Hotels = withCategory(set.Hotels, catalog.CategoryHotel)
	set.Culture = withCategory(set.Culture, catalog.CategoryCulture)
	return set
}

func withCategory(places []catalog.Place, c catalog.Category) []catalog.Place {
	for i := range places {
		if places[i].Category == "" {
			places[i].Category = c
		}
	}
	return places
}

// checkIdentity enforces unique destination ids, unique place ids within a
// destination and that every place bucket belongs to a known destination.
func checkIdentity(doc Document) error {
	var errs []error

	known := make(map[string]struct{}, len(doc.Destinations))
	for _, d := range doc.Destinations {
		if _, dup := known[d.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate destination id %q", d.ID))
		}
		known[d.ID] = struct{}{}
	}

	for destID, set := range doc.Places {
		if _, ok := known[destID]; !ok {
			errs = append(errs, fmt.Errorf("places listed for unknown destination %q", destID))
		}
		seen := make(map[string]struct{})
		for _, p := range set.All() {
			if _, dup := seen[p.ID]; dup {
				errs = append(errs, fmt.Errorf("duplicate place id %q in destination %q", p.ID, destID))
			}
			seen[p.ID] = struct{}{}
		}
	}

	return errors.Join(errs...)
}
