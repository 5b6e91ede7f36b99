package imaging

import "testing"

func TestDilateRect(t *testing.T) {
	b := binaryFromRows(
		".....",
		".....",
		"..#..",
		".....",
		".....",
	)

	assertRows(t, DilateRect(b, 1, 0),
		".....",
		".....",
		".###.",
		".....",
		".....",
	)

	assertRows(t, DilateRect(b, 1, 2),
		".###.",
		".###.",
		".###.",
		".###.",
		".###.",
	)
}

func TestErodeRect(t *testing.T) {
	b := binaryFromRows(
		"#####",
		"#####",
		"###..",
	)

	// Border counts as foreground: top and left edges survive.
	assertRows(t, ErodeRect(b, 1, 1),
		"#####",
		"##...",
		"##...",
	)
}

func TestCloseRect_FillsGapsWithoutGrowing(t *testing.T) {
	// Two horizontal lines separated by a 2-row gap fuse into one band.
	b := binaryFromRows(
		"............",
		"............",
		"............",
		"..########..",
		"............",
		"............",
		"..########..",
		"............",
		"............",
		"............",
	)

	assertRows(t, CloseRect(b, 1, 2),
		"............",
		"............",
		"............",
		"..########..",
		"..########..",
		"..########..",
		"..########..",
		"............",
		"............",
		"............",
	)
}

func TestHorizontalRuns(t *testing.T) {
	b := binaryFromRows(
		"##.#####..",
		"#########.",
	)

	assertRows(t, HorizontalRuns(b, 5),
		"...#####..",
		"#########.",
	)

	// Length 1 keeps everything
	assertRows(t, HorizontalRuns(b, 1), rowsOf(b)...)
}

func TestMorphology_ZeroRadiusIsIdentity(t *testing.T) {
	b := binaryFromRows(
		"#.#",
		".#.",
	)
	assertRows(t, DilateRect(b, 0, 0), rowsOf(b)...)
	assertRows(t, ErodeRect(b, 0, 0), rowsOf(b)...)
}
