package tmgraph

const (
	// TD_RANK_SPACING is the vertical air between ranks in top-down layouts,
	// which is also where connectors and arrow heads live.
	TD_RANK_SPACING = 2

	// TD_NODE_GAP separates nodes within one top-down rank.
	TD_NODE_GAP = 3

	// LR_RANK_GAP is the default horizontal air between ranks in
	// left-to-right layouts; an edge label crossing the boundary widens it.
	LR_RANK_GAP = 5

	// LR_NODE_GAP separates stacked nodes within one left-to-right rank.
	LR_NODE_GAP = 2

	// HORIZONTAL_PAD is the padding on each side of a node label.
	HORIZONTAL_PAD = 2

	// CIRCLE_EXTRA is the extra width a circle node adds over a plain box so
	// the double parentheses read as round.
	CIRCLE_EXTRA = 4

	// SUBGRAPH_PAD_X and SUBGRAPH_PAD_Y inset subgraph content from the
	// subgraph border.
	SUBGRAPH_PAD_X = 2
	SUBGRAPH_PAD_Y = 1

	// SUBGRAPH_TITLE_DECOR is the border and spacing around a subgraph title
	// in its top rule.
	SUBGRAPH_TITLE_DECOR = 6
)
