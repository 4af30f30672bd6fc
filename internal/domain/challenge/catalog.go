package challenge

import (
	"errors"
	"fmt"
	"sort"
)

// CatalogVersion changes whenever a catalog entry is added, removed or re-scored.
const CatalogVersion = "2025.1"

var ErrInvalidChallenge = errors.New("invalid challenge definition")

// Catalog is the immutable set of challenges a league can select from.
type Catalog struct {
	version string
	items   map[string]Challenge
	order   []string
}

func NewCatalog(version string, items []Challenge) (*Catalog, error) {
	c := &Catalog{
		version: version,
		items:   make(map[string]Challenge, len(items)),
		order:   make([]string, 0, len(items)),
	}
	for _, item := range items {
		if _, exists := c.items[item.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidChallenge, item.ID)
		}
		if err := Validate(item); err != nil {
			return nil, err
		}
		c.items[item.ID] = cloneChallenge(item)
		c.order = append(c.order, item.ID)
	}
	return c, nil
}

var defaultCatalog = mustCatalog(CatalogVersion, builtinChallenges())

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) Get(id string) (Challenge, bool) {
	item, ok := c.items[id]
	if !ok {
		return Challenge{}, false
	}
	return cloneChallenge(item), true
}

func (c *Catalog) List() []Challenge {
	out := make([]Challenge, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneChallenge(c.items[id]))
	}
	return out
}

func (c *Catalog) ByCategory(category Category) []Challenge {
	out := make([]Challenge, 0)
	for _, id := range c.order {
		if c.items[id].Category == category {
			out = append(out, cloneChallenge(c.items[id]))
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Categories returns the categories present in the catalog in a stable order.
func (c *Catalog) Categories() []Category {
	seen := make(map[Category]struct{})
	out := make([]Category, 0)
	for _, id := range c.order {
		cat := c.items[id].Category
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	sort.SliceStable(out, func(i, j int) bool { return categoryRank(out[i]) < categoryRank(out[j]) })
	return out
}

// Validate checks that a challenge can be evaluated.
func Validate(ch Challenge) error {
	if ch.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidChallenge)
	}
	if ch.Points <= 0 {
		return fmt.Errorf("%w: %s points must be > 0", ErrInvalidChallenge, ch.ID)
	}
	if categoryRank(ch.Category) < 0 {
		return fmt.Errorf("%w: %s has unknown category %q", ErrInvalidChallenge, ch.ID, ch.Category)
	}
	for _, cond := range ch.Conditions {
		if err := validateCondition(ch.ID, cond); err != nil {
			return err
		}
	}

	switch ch.EvaluationType {
	case EvaluationCompetitive:
		if _, ok := LookupMetric(ch.Metric); !ok {
			return fmt.Errorf("%w: %s has unknown metric %q", ErrInvalidChallenge, ch.ID, ch.Metric)
		}
		if ch.Order != "" && ch.Order != OrderAsc && ch.Order != OrderDesc {
			return fmt.Errorf("%w: %s has unknown order %q", ErrInvalidChallenge, ch.ID, ch.Order)
		}
	case EvaluationBinary:
		if len(ch.Conditions) == 0 {
			return fmt.Errorf("%w: %s binary challenge needs conditions", ErrInvalidChallenge, ch.ID)
		}
	case EvaluationFirstToAchieve:
		target := ch.TargetConditions()
		if len(target) == 0 {
			return fmt.Errorf("%w: %s firstToAchieve challenge needs a target", ErrInvalidChallenge, ch.ID)
		}
		for _, cond := range target {
			if err := validateCondition(ch.ID, cond); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %s has unknown evaluation type %q", ErrInvalidChallenge, ch.ID, ch.EvaluationType)
	}

	return nil
}

func validateCondition(id string, cond Condition) error {
	metric, ok := LookupMetric(cond.Metric)
	if !ok {
		return fmt.Errorf("%w: %s condition has unknown metric %q", ErrInvalidChallenge, id, cond.Metric)
	}
	if !cond.Operator.Valid() {
		return fmt.Errorf("%w: %s condition has unknown operator %q", ErrInvalidChallenge, id, cond.Operator)
	}
	switch cond.Scope {
	case ScopeRunTotal:
	case ScopeSingleGame:
		if !metric.SupportsSingleGame() {
			return fmt.Errorf("%w: %s metric %q cannot be used per game", ErrInvalidChallenge, id, cond.Metric)
		}
	default:
		return fmt.Errorf("%w: %s condition has unknown scope %q", ErrInvalidChallenge, id, cond.Scope)
	}
	return nil
}

func categoryRank(c Category) int {
	switch c {
	case CategoryOffensive:
		return 0
	case CategoryDefensive:
		return 1
	case CategoryTechnical:
		return 2
	case CategoryManagement:
		return 3
	case CategoryBonus:
		return 4
	case CategoryFirstToAchieve:
		return 5
	default:
		return -1
	}
}

func cloneChallenge(ch Challenge) Challenge {
	out := ch
	out.Conditions = append([]Condition(nil), ch.Conditions...)
	if ch.Value != nil {
		v := *ch.Value
		out.Value = &v
	}
	return out
}

func mustCatalog(version string, items []Challenge) *Catalog {
	c, err := NewCatalog(version, items)
	if err != nil {
		panic(err)
	}
	return c
}
