package tmparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termaid/termaid/tmast"
	"github.com/termaid/termaid/tmparser"
)

func TestGraphSimpleTD(t *testing.T) {
	d, err := tmparser.ParseGraph("graph TD\n    A[Start] --> B[End]\n")
	require.NoError(t, err)
	assert.Equal(t, tmast.DirectionTopDown, d.Direction)
	require.Len(t, d.Nodes, 2)
	assert.Equal(t, tmast.GraphNode{ID: "A", Label: "Start", Shape: tmast.ShapeBox}, d.Nodes[0])
	assert.Equal(t, tmast.GraphNode{ID: "B", Label: "End", Shape: tmast.ShapeBox}, d.Nodes[1])
	require.Len(t, d.Edges, 1)
	assert.Equal(t, tmast.GraphEdge{From: "A", To: "B", Kind: tmast.EdgeArrow}, d.Edges[0])
}

func TestGraphDirections(t *testing.T) {
	for keyword, dir := range map[string]tmast.GraphDirection{
		"graph TD":     tmast.DirectionTopDown,
		"graph TB":     tmast.DirectionTopDown,
		"graph LR":     tmast.DirectionLeftRight,
		"flowchart TD": tmast.DirectionTopDown,
		"flowchart LR": tmast.DirectionLeftRight,
	} {
		d, err := tmparser.ParseGraph(keyword + "\n    A --> B\n")
		require.NoError(t, err, keyword)
		assert.Equal(t, dir, d.Direction, keyword)
	}
}

func TestGraphShapes(t *testing.T) {
	d, err := tmparser.ParseGraph(`graph TD
    A[Box]
    B(Round)
    C((Circle))
    D{Diamond}
`)
	require.NoError(t, err)
	require.Len(t, d.Nodes, 4)
	assert.Equal(t, tmast.ShapeBox, d.Nodes[0].Shape)
	assert.Equal(t, tmast.ShapeRound, d.Nodes[1].Shape)
	assert.Equal(t, tmast.ShapeCircle, d.Nodes[2].Shape)
	assert.Equal(t, tmast.ShapeDiamond, d.Nodes[3].Shape)
	assert.Equal(t, "Circle", d.Nodes[2].Label)
}

func TestGraphEdgeKinds(t *testing.T) {
	tests := []struct {
		connector string
		kind      tmast.EdgeKind
	}{
		{"-->", tmast.EdgeArrow},
		{"---", tmast.EdgeOpenLink},
		{"-.->", tmast.EdgeDottedArrow},
		{"-.-", tmast.EdgeDottedLink},
		{"==>", tmast.EdgeThickArrow},
		{"===", tmast.EdgeThickLink},
	}
	for _, tc := range tests {
		t.Run(tc.connector, func(t *testing.T) {
			d, err := tmparser.ParseGraph("graph TD\n    A " + tc.connector + " B\n")
			require.NoError(t, err)
			require.Len(t, d.Edges, 1)
			assert.Equal(t, tc.kind, d.Edges[0].Kind)
		})
	}
}

func TestGraphEdgeLabels(t *testing.T) {
	d, err := tmparser.ParseGraph("graph TD\n    A -->|yes| B\n    A -.->|maybe| C\n")
	require.NoError(t, err)
	require.Len(t, d.Edges, 2)
	assert.Equal(t, "yes", d.Edges[0].Label)
	assert.Equal(t, "maybe", d.Edges[1].Label)
}

func TestGraphInlineEdgeLabels(t *testing.T) {
	d, err := tmparser.ParseGraph("graph TD\n    A -- hello world --> B\n    A -- text --- C\n")
	require.NoError(t, err)
	require.Len(t, d.Edges, 2)
	assert.Equal(t, tmast.EdgeArrow, d.Edges[0].Kind)
	assert.Equal(t, "hello world", d.Edges[0].Label)
	assert.Equal(t, tmast.EdgeOpenLink, d.Edges[1].Kind)
	assert.Equal(t, "text", d.Edges[1].Label)
}

func TestGraphMultiTarget(t *testing.T) {
	d, err := tmparser.ParseGraph("graph TD\n    A --> B & C & D\n")
	require.NoError(t, err)
	require.Len(t, d.Edges, 3)
	assert.Equal(t, "B", d.Edges[0].To)
	assert.Equal(t, "C", d.Edges[1].To)
	assert.Equal(t, "D", d.Edges[2].To)
	assert.Len(t, d.Nodes, 4)
}

func TestGraphNodeDedup(t *testing.T) {
	d, err := tmparser.ParseGraph("graph TD\n    A[Start] --> B\n    A --> C\n")
	require.NoError(t, err)
	require.Len(t, d.Nodes, 3)
	assert.Equal(t, "Start", d.Nodes[0].Label)
}

// A bare reference first, then an explicit label: the label wins but the
// node keeps its first-seen position.
func TestGraphNodeLabelUpgrade(t *testing.T) {
	d, err := tmparser.ParseGraph("graph TD\n    A --> B\n    A[Start]\n")
	require.NoError(t, err)
	require.Len(t, d.Nodes, 2)
	assert.Equal(t, "A", d.Nodes[0].ID)
	assert.Equal(t, "Start", d.Nodes[0].Label)
}

func TestGraphQuotedLabels(t *testing.T) {
	d, err := tmparser.ParseGraph("graph TD\n    A[\"[NOTE] Hello World\"] --> B\n    C(\"(inner) text\")\n    D{\"choice {A}\"}\n")
	require.NoError(t, err)
	assert.Equal(t, "[NOTE] Hello World", d.Nodes[0].Label)
	assert.Equal(t, "(inner) text", d.Nodes[2].Label)
	assert.Equal(t, "choice {A}", d.Nodes[3].Label)
}

func TestGraphSubgraph(t *testing.T) {
	d, err := tmparser.ParseGraph(`graph TD
    C
    subgraph Backend
        A[API] --> B[DB]
    end
    C --> A
`)
	require.NoError(t, err)
	require.Len(t, d.Subgraphs, 1)
	assert.Equal(t, "Backend", d.Subgraphs[0].Label)
	assert.Equal(t, []string{"A", "B"}, d.Subgraphs[0].NodeIDs)
	assert.Len(t, d.Nodes, 3)
	assert.Len(t, d.Edges, 2)
}

func TestGraphNestedSubgraphOrder(t *testing.T) {
	d, err := tmparser.ParseGraph(`graph TD
    subgraph Outer
        subgraph Inner
            A
        end
        B
    end
`)
	require.NoError(t, err)
	require.Len(t, d.Subgraphs, 2)
	assert.Equal(t, "Inner", d.Subgraphs[0].Label)
	assert.Equal(t, []string{"A"}, d.Subgraphs[0].NodeIDs)
	assert.Equal(t, "Outer", d.Subgraphs[1].Label)
	assert.Equal(t, []string{"B"}, d.Subgraphs[1].NodeIDs)
}

func TestGraphErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing header", "A --> B\n", "syntax error at line 1"},
		{"bad direction", "graph XX\nA --> B\n", "syntax error at line 1"},
		{"stray end", "graph TD\nend\n", "syntax error at line 2"},
		{"unterminated subgraph", "graph TD\nsubgraph G\nA\n", "missing `end`"},
		{"dangling edge", "graph TD\nA -->\n", "syntax error at line 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tmparser.ParseGraph(tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
