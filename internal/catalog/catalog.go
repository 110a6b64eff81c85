// Package catalog provides the static, read-only product catalog. The
// catalog is parsed once from a YAML data file (an embedded default
// ships with the binary) and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grillburger/backend/internal/models"
)

//go:embed catalog.yaml
var defaultData []byte

// productRecord is the on-disk shape of one catalog entry. The
// splittable flag accepts any truthy form (bool, "yes", 1, ...), so
// hand-edited catalog files don't need to be strict about it.
type productRecord struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Pack        string  `yaml:"pack"`
	Price       float64 `yaml:"price"`
	Splittable  truthy  `yaml:"splittable"`
	Description string  `yaml:"description"`
}

// truthy coerces loosely-typed YAML values to a boolean at the parse
// boundary.
type truthy bool

func (t *truthy) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*t = false
	case bool:
		*t = truthy(v)
	case int:
		*t = v != 0
	case float64:
		*t = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no", "n":
			*t = false
		default:
			*t = true
		}
	default:
		return fmt.Errorf("cannot coerce %T to bool", raw)
	}
	return nil
}

// Catalog is an immutable ordered sequence of products.
type Catalog struct {
	products   []models.Product
	byID       map[string]models.Product
	categories []string
}

// Parse builds a catalog from YAML data. IDs must be unique and prices
// non-negative.
func Parse(data []byte) (*Catalog, error) {
	var records []productRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]models.Product, len(records))}
	seenCategory := make(map[string]bool)
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, r.ID)
		}
		if r.Price < 0 {
			return nil, fmt.Errorf("catalog entry %q: negative price %v", r.ID, r.Price)
		}
		p := models.Product{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Pack:        r.Pack,
			Price:       r.Price,
			Splittable:  bool(r.Splittable),
			Description: r.Description,
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
		if p.Category != "" && !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			c.categories = append(c.categories, p.Category)
		}
	}
	return c, nil
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultData)
	if err != nil {
		// The embedded data is fixed at build time.
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by ID.
func (c *Catalog) Get(id string) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Filter returns products matching a category chip and a free-text
// query. An empty (or "All") category matches everything; the query is
// a case-insensitive substring match over name, category and ID.
func (c *Catalog) Filter(category, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Product
	for _, p := range c.products {
		if category != "" && category != "All" && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) &&
			!strings.Contains(strings.ToLower(p.ID), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
