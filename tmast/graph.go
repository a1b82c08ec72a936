package tmast

// GraphDirection is the primary layout axis of a flowchart.
type GraphDirection int

const (
	DirectionTopDown GraphDirection = iota
	DirectionLeftRight
)

type NodeShape int

const (
	ShapeBox NodeShape = iota
	ShapeRound
	ShapeCircle
	ShapeDiamond
)

type EdgeKind int

const (
	EdgeArrow EdgeKind = iota
	EdgeOpenLink
	EdgeDottedArrow
	EdgeDottedLink
	EdgeThickArrow
	EdgeThickLink
)

// HasArrowHead reports whether the edge kind terminates in an arrow head.
func (k EdgeKind) HasArrowHead() bool {
	switch k {
	case EdgeArrow, EdgeDottedArrow, EdgeThickArrow:
		return true
	}
	return false
}

// GraphDiagram is the root of a parsed graph/flowchart. Nodes are
// deduplicated by id in declaration order.
type GraphDiagram struct {
	Direction GraphDirection
	Nodes     []GraphNode
	Edges     []GraphEdge
	Subgraphs []Subgraph
}

type GraphNode struct {
	ID    string
	Label string
	Shape NodeShape
}

type GraphEdge struct {
	From, To string
	Kind     EdgeKind
	Label    string
}

// Subgraph groups member nodes under a titled border.
type Subgraph struct {
	Label   string
	NodeIDs []string
}
