package ruleset

import (
	"fmt"
	"sort"

	"signquote/internal/domain"
)

// FieldRule is the declarative validation configuration for one field of one
// product type. The engine consumes it; it never owns or mutates it.
type FieldRule struct {
	Template      string               `yaml:"template" json:"template"`
	Params        map[string]any       `yaml:"params" json:"params,omitempty"`
	ErrorLevel    domain.ErrorLevel    `yaml:"error_level" json:"error_level,omitempty"`
	Category      domain.FieldCategory `yaml:"category" json:"category"`
	DependsOn     []string             `yaml:"depends_on" json:"depends_on,omitempty"`
	Complimentary []string             `yaml:"complimentary" json:"complimentary,omitempty"`
	Message       string               `yaml:"message" json:"message,omitempty"`
}

// RulePack is the full rule configuration for one product type.
type RulePack struct {
	ProductTypeID int                    `yaml:"product_type_id" json:"product_type_id"`
	Name          string                 `yaml:"name" json:"name"`
	Category      domain.ProductCategory `yaml:"category" json:"category"`
	Derived       bool                   `yaml:"derived" json:"derived"`
	RequiresUL    bool                   `yaml:"requires_ul" json:"requires_ul"`
	Fields        map[string]FieldRule   `yaml:"fields" json:"fields"`
}

// Config is the read-only product rule configuration supplied to the engine
// per invocation.
type Config struct {
	packs map[int]*RulePack
}

// New builds a Config from rule packs. Duplicate product type IDs are an error.
func New(packs ...*RulePack) (*Config, error) {
	cfg := &Config{packs: make(map[int]*RulePack, len(packs))}
	for _, p := range packs {
		if p.ProductTypeID == 0 {
			return nil, fmt.Errorf("ruleset: pack %q has no product_type_id", p.Name)
		}
		if _, dup := cfg.packs[p.ProductTypeID]; dup {
			return nil, fmt.Errorf("ruleset: duplicate product_type_id %d", p.ProductTypeID)
		}
		cfg.packs[p.ProductTypeID] = p
	}
	return cfg, nil
}

// Pack returns the rule pack for a product type, or nil when unconfigured.
func (c *Config) Pack(productTypeID int) *RulePack {
	if c == nil {
		return nil
	}
	return c.packs[productTypeID]
}

// FieldRules returns the per-field rules for a product type, or nil.
func (c *Config) FieldRules(productTypeID int) map[string]FieldRule {
	p := c.Pack(productTypeID)
	if p == nil {
		return nil
	}
	return p.Fields
}

// Category returns the metadata category tag for a product type.
// Unconfigured types report the standard category.
func (c *Config) Category(productTypeID int) domain.ProductCategory {
	p := c.Pack(productTypeID)
	if p == nil || p.Category == "" {
		return domain.ProductCategoryStandard
	}
	return p.Category
}

// ProductTypeIDs returns all configured product type IDs in ascending order.
func (c *Config) ProductTypeIDs() []int {
	ids := make([]int, 0, len(c.packs))
	for id := range c.packs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
