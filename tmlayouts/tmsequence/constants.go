package tmsequence

const (
	// MIN_GAP is the default center-to-center distance between adjacent
	// participant lifelines.
	MIN_GAP = 10

	// ARROW_DECORATION_WIDTH is the column cost of an arrow's endpoints and
	// head glyph on top of the message text itself.
	ARROW_DECORATION_WIDTH = 2

	// SELF_LOOP_ARM is how far a self message arcs out to the right of its
	// lifeline.
	SELF_LOOP_ARM = 4

	// HORIZONTAL_PAD is the padding on each side of a label inside a
	// participant or note box.
	HORIZONTAL_PAD = 2
)
