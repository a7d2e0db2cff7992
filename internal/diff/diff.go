// internal/diff/diff.go
package diff

import (
	"strings"
)

// Kind classifies a run of lines in a rendered diff.
type Kind int

const (
	Equal Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "equal"
	}
}

// Run is a maximal contiguous span of lines sharing one classification.
type Run struct {
	Kind  Kind
	Lines []string
}

// Render compares two texts line by line and returns the minimal edit
// script as runs in document order: equal spans interleaved with removed
// and added spans at each point of divergence, removed lines first, the
// way unified diffs order them. Identical inputs render as a single Equal
// run. Pure function, no storage access.
func Render(oldText, newText string) []Run {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	matrix := lcsMatrix(oldLines, newLines)

	// Backtrack from the end of both texts; ops come out newest-position
	// first and are coalesced into runs in a reverse pass.
	type op struct {
		kind Kind
		line string
	}
	var ops []op

	i, j := len(oldLines), len(newLines)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && oldLines[i-1] == newLines[j-1]:
			ops = append(ops, op{Equal, oldLines[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || matrix[i][j-1] >= matrix[i-1][j]):
			ops = append(ops, op{Added, newLines[j-1]})
			j--
		default:
			ops = append(ops, op{Removed, oldLines[i-1]})
			i--
		}
	}

	var runs []Run
	for k := len(ops) - 1; k >= 0; k-- {
		o := ops[k]
		if len(runs) > 0 && runs[len(runs)-1].Kind == o.kind {
			last := &runs[len(runs)-1]
			last.Lines = append(last.Lines, o.line)
			continue
		}
		runs = append(runs, Run{Kind: o.kind, Lines: []string{o.line}})
	}

	return runs
}

// Format returns a plain-text rendering with the usual one-character
// prefixes: "+ " added, "- " removed, "  " equal.
func Format(runs []Run) string {
	var buf strings.Builder

	for _, run := range runs {
		var prefix string
		switch run.Kind {
		case Added:
			prefix = "+ "
		case Removed:
			prefix = "- "
		default:
			prefix = "  "
		}
		for _, line := range run.Lines {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

func lcsMatrix(oldLines, newLines []string) [][]int {
	matrix := make([][]int, len(oldLines)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(newLines)+1)
	}

	for i := 1; i <= len(oldLines); i++ {
		for j := 1; j <= len(newLines); j++ {
			if oldLines[i-1] == newLines[j-1] {
				matrix[i][j] = matrix[i-1][j-1] + 1
			} else {
				matrix[i][j] = max(matrix[i-1][j], matrix[i][j-1])
			}
		}
	}

	return matrix
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
