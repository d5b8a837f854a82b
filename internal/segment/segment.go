// Package segment splits normalized page texts into per-question blocks.
package segment

import (
	"strconv"
	"strings"

	"github.com/pavelanni/examdoc/internal/rules"
)

// Block is one contiguous run of text belonging to a single question.
type Block struct {
	// Number is the question number captured from the marker line. The
	// source numbering is kept as-is; it need not be contiguous or unique
	// in malformed documents.
	Number int
	// Text is the block's full text, trimmed, with marker lines removed.
	Text string
	// Pages lists the zero-based page indices the block's text touched, in
	// order of first appearance, without duplicates. Never empty.
	Pages []int
}

// Pages splits normalized pages into question blocks. Lines are scanned in
// document order; each marker match starts a new block and the marker line
// itself is consumed as a delimiter. Lines before the first marker are
// discarded. A document with no markers yields no blocks.
func Pages(pages []string, markers []rules.Marker) []Block {
	var blocks []Block
	var current *Block
	var buf strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(buf.String())
		blocks = append(blocks, *current)
		current = nil
		buf.Reset()
	}

	for pageIndex, pageText := range pages {
		for _, line := range strings.Split(pageText, "\n") {
			if num, ok := matchMarker(line, markers); ok {
				flush()
				current = &Block{Number: num, Pages: []int{pageIndex}}
				continue
			}
			if current == nil {
				continue
			}
			buf.WriteString(line)
			buf.WriteByte('\n')
			if current.Pages[len(current.Pages)-1] != pageIndex {
				current.Pages = append(current.Pages, pageIndex)
			}
		}
	}
	flush()
	return blocks
}

// matchMarker tests line against the markers in table order and returns the
// captured question number of the first match.
func matchMarker(line string, markers []rules.Marker) (int, bool) {
	for _, m := range markers {
		groups := m.Regex.FindStringSubmatch(line)
		if groups == nil || len(groups) < 2 {
			continue
		}
		num, err := strconv.Atoi(groups[1])
		if err != nil || num <= 0 {
			continue
		}
		return num, true
	}
	return 0, false
}
