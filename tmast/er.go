package tmast

// Cardinality is one side of an ER relationship.
type Cardinality int

const (
	ExactlyOne Cardinality = iota
	ZeroOrOne
	OneOrMany
	ZeroOrMany
)

// ERDiagram is the root of a parsed erDiagram. Entities are deduplicated by
// name in first-seen order.
type ERDiagram struct {
	Entities      []Entity
	Relationships []Relationship
}

type Entity struct {
	Name       string
	Attributes []EntityAttribute
}

// EntityAttribute is one row of an entity's attribute block, e.g.
// "string name PK".
type EntityAttribute struct {
	Type string
	Name string
	Key  string // PK/FK/UK marker, empty when absent
}

type Relationship struct {
	From, To  string
	LeftCard  Cardinality
	RightCard Cardinality
	Label     string
}
