package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIdentity(t *testing.T) {
	for _, text := range []string{
		"hello\n",
		"one\ntwo\nthree\n",
		"",
		"no trailing newline",
	} {
		runs := Render(text, text)
		require.Len(t, runs, 1, "input %q", text)
		assert.Equal(t, Equal, runs[0].Kind)
	}
}

func TestRenderFullReplacement(t *testing.T) {
	runs := Render("hello\n", "hello world\n")

	require.Len(t, runs, 2)
	assert.Equal(t, Removed, runs[0].Kind)
	assert.Equal(t, []string{"hello"}, runs[0].Lines)
	assert.Equal(t, Added, runs[1].Kind)
	assert.Equal(t, []string{"hello world"}, runs[1].Lines)
}

func TestRenderInterleavedRuns(t *testing.T) {
	oldText := "a\nb\nc\nd\n"
	newText := "a\nx\nc\nd\ne\n"

	runs := Render(oldText, newText)

	// Equal(a), Removed(b), Added(x), Equal(c d), Added(e): removed lines
	// precede added lines at each divergence, in document order.
	require.Len(t, runs, 5)
	assert.Equal(t, Run{Kind: Equal, Lines: []string{"a"}}, runs[0])
	assert.Equal(t, Run{Kind: Removed, Lines: []string{"b"}}, runs[1])
	assert.Equal(t, Run{Kind: Added, Lines: []string{"x"}}, runs[2])
	assert.Equal(t, Run{Kind: Equal, Lines: []string{"c", "d"}}, runs[3])
	assert.Equal(t, Run{Kind: Added, Lines: []string{"e"}}, runs[4])
}

func TestRenderMaximalRuns(t *testing.T) {
	runs := Render("a\nb\n", "a\nb\nc\nd\ne\n")

	// Consecutive added lines coalesce into a single run.
	require.Len(t, runs, 2)
	assert.Equal(t, Run{Kind: Equal, Lines: []string{"a", "b"}}, runs[0])
	assert.Equal(t, Run{Kind: Added, Lines: []string{"c", "d", "e"}}, runs[1])
}

func TestRenderPureRemoval(t *testing.T) {
	runs := Render("a\nb\nc\n", "a\nc\n")

	require.Len(t, runs, 3)
	assert.Equal(t, Run{Kind: Equal, Lines: []string{"a"}}, runs[0])
	assert.Equal(t, Run{Kind: Removed, Lines: []string{"b"}}, runs[1])
	assert.Equal(t, Run{Kind: Equal, Lines: []string{"c"}}, runs[2])
}

func TestFormat(t *testing.T) {
	runs := Render("hello\n", "hello world\n")
	assert.Equal(t, "- hello\n+ hello world\n", Format(runs))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
}
