package challenge

import "fmt"

type Category string

const (
	CategoryOffensive      Category = "Offensive"
	CategoryDefensive      Category = "Defensive"
	CategoryTechnical      Category = "Technical"
	CategoryManagement     Category = "Management"
	CategoryBonus          Category = "Bonus"
	CategoryFirstToAchieve Category = "FirstToAchieve"
)

type EvaluationType string

const (
	EvaluationCompetitive    EvaluationType = "competitive"
	EvaluationBinary         EvaluationType = "binary"
	EvaluationFirstToAchieve EvaluationType = "firstToAchieve"
)

type Scope string

const (
	ScopeRunTotal   Scope = "runTotal"
	ScopeSingleGame Scope = "singleGame"
)

// Order controls which end of a competitive ranking wins.
type Order string

const (
	OrderDesc Order = "desc"
	OrderAsc  Order = "asc"
)

type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
)

const floatTolerance = 1e-9

func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreaterOrEqual, OpLessOrEqual, OpGreater, OpLess:
		return true
	default:
		return false
	}
}

func (o Operator) Apply(left, right float64) bool {
	diff := left - right
	equal := diff < floatTolerance && diff > -floatTolerance
	switch o {
	case OpEqual:
		return equal
	case OpNotEqual:
		return !equal
	case OpGreaterOrEqual:
		return equal || left > right
	case OpLessOrEqual:
		return equal || left < right
	case OpGreater:
		return !equal && left > right
	case OpLess:
		return !equal && left < right
	default:
		return false
	}
}

type Condition struct {
	Metric   string
	Operator Operator
	Value    float64
	Scope    Scope
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %g (%s)", c.Metric, c.Operator, c.Value, c.Scope)
}

// Challenge is an immutable catalog entry.
type Challenge struct {
	ID             string
	Name           string
	Description    string
	Category       Category
	Points         int
	EvaluationType EvaluationType
	Metric         string
	Conditions     []Condition
	MinGames       int
	// Value is the target for firstToAchieve challenges declared without conditions.
	Value *float64
	Order Order
}

// TargetConditions resolves the race target of a firstToAchieve challenge.
func (c Challenge) TargetConditions() []Condition {
	if len(c.Conditions) > 0 {
		return append([]Condition(nil), c.Conditions...)
	}
	if c.Metric == "" || c.Value == nil {
		return nil
	}
	return []Condition{{
		Metric:   c.Metric,
		Operator: OpGreaterOrEqual,
		Value:    *c.Value,
		Scope:    ScopeRunTotal,
	}}
}

func (c Challenge) minGames() int {
	if c.MinGames < 1 {
		return 1
	}
	return c.MinGames
}
