// Package catalog holds the skill hierarchy: ordered categories of skills
// and the lookup from a metric name to the scores it reads.
package catalog

import (
	"fmt"
)

// Category groups related skills.
type Category struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// MetricKind tells whether a metric is a single skill or a category mean.
type MetricKind int

const (
	KindSkill MetricKind = iota
	KindCategory
)

func (k MetricKind) String() string {
	if k == KindCategory {
		return "category"
	}
	return "skill"
}

// Metric is a resolved skill or category.
type Metric struct {
	Name   string
	Kind   MetricKind
	Skills []string // constituent skills; a single entry for KindSkill
}

// Value reads the metric from one record's scores. A category value is the
// arithmetic mean of the constituent skills the record carries. ok is false
// when none of them is present.
func (m Metric) Value(scores map[string]int) (float64, bool) {
	if m.Kind == KindSkill {
		s, ok := scores[m.Name]
		return float64(s), ok
	}
	sum, n := 0, 0
	for _, skill := range m.Skills {
		if s, ok := scores[skill]; ok {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// Hierarchy is an immutable skill catalog.
type Hierarchy struct {
	categories []Category
	skills     []string
	categoryOf map[string]string
	byName     map[string]int
}

// New builds a hierarchy. Skill and category names must be unique across
// the whole catalog.
func New(categories []Category) (*Hierarchy, error) {
	h := &Hierarchy{
		categories: make([]Category, 0, len(categories)),
		categoryOf: make(map[string]string),
		byName:     make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		if c.Name == "" || len(c.Skills) == 0 {
			return nil, fmt.Errorf("%w: category %q", ErrEmptyCategory, c.Name)
		}
		if _, dup := h.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
		}
		cp := Category{Name: c.Name, Description: c.Description, Skills: append([]string(nil), c.Skills...)}
		h.byName[c.Name] = len(h.categories)
		h.categories = append(h.categories, cp)
		for _, s := range cp.Skills {
			if _, dup := h.categoryOf[s]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, s)
			}
			if _, clash := h.byName[s]; clash {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, s)
			}
			h.categoryOf[s] = c.Name
			h.skills = append(h.skills, s)
		}
	}
	return h, nil
}

// Categories returns the categories in catalog order.
func (h *Hierarchy) Categories() []Category {
	out := make([]Category, len(h.categories))
	copy(out, h.categories)
	return out
}

// CategoryNames returns the category names in catalog order.
func (h *Hierarchy) CategoryNames() []string {
	out := make([]string, len(h.categories))
	for i, c := range h.categories {
		out[i] = c.Name
	}
	return out
}

// Skills returns every skill in catalog order.
func (h *Hierarchy) Skills() []string {
	return append([]string(nil), h.skills...)
}

// CategoryOf returns the category a skill belongs to.
func (h *Hierarchy) CategoryOf(skill string) (string, bool) {
	c, ok := h.categoryOf[skill]
	return c, ok
}

// Resolve maps a name to a skill or category metric.
func (h *Hierarchy) Resolve(name string) (Metric, error) {
	if _, ok := h.categoryOf[name]; ok {
		return Metric{Name: name, Kind: KindSkill, Skills: []string{name}}, nil
	}
	if i, ok := h.byName[name]; ok {
		c := h.categories[i]
		return Metric{Name: name, Kind: KindCategory, Skills: append([]string(nil), c.Skills...)}, nil
	}
	return Metric{}, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}
