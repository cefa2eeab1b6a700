package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		candidate string
		pattern   string
		want      bool
	}{
		{"Completed", "Complet*", true},
		{"Unfinished", "*finish*", true},
		{"Redone", "*done", true},
		{"Todo", "Done", false},
		{"Done", "Done", true},
		{"DONE", "done", true},
		{"done", "DoNe", true},
		{"Done!", "Done", false},
		{"Not Done", "Done", false},
		{"Task.1", "Task.1", true},
		{"TaskX1", "Task.1", false},
		{"a+b", "a+b", true},
		{"aab", "a+b", false},
		{"(wip)", "(wip)", true},
		{"Ready for QA", "Ready*QA", true},
		{"Ready for QA later", "Ready*QA", false},
		{"", "*", true},
		{"anything", "*", true},
		{"", "", true},
		{"x", "", false},
		{"line1\nline2", "line1*", true},
	}

	for _, tt := range tests {
		t.Run(tt.candidate+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.candidate, tt.pattern))
		})
	}
}

func TestShouldPositionAtTop(t *testing.T) {
	p := NewPolicy([]string{"Done"})
	require.True(t, p.Enabled())

	top := p.ShouldPositionAtTop("Done", nil)
	require.NotNil(t, top)
	assert.Equal(t, 0, *top)

	top = p.ShouldPositionAtTop("done", nil)
	require.NotNil(t, top)
	assert.Equal(t, 0, *top)

	assert.Nil(t, p.ShouldPositionAtTop("Todo", nil))

	five := 5
	got := p.ShouldPositionAtTop("Done", &five)
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)

	got = p.ShouldPositionAtTop("Todo", &five)
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)
}

func TestShouldPositionAtTop_ReturnsCopy(t *testing.T) {
	p := NewPolicy(nil)
	explicit := 3
	got := p.ShouldPositionAtTop("x", &explicit)
	*got = 9
	assert.Equal(t, 3, explicit)
}

func TestPolicy_FirstMatchAmongMany(t *testing.T) {
	p := NewPolicy([]string{"Backlog", "Finish*", "*urgent*"})

	assert.True(t, p.MatchesList("Finished"))
	assert.True(t, p.MatchesList("Very URGENT stuff"))
	assert.False(t, p.MatchesList("In Progress"))
	assert.Equal(t, []string{"Backlog", "Finish*", "*urgent*"}, p.Patterns())
}

func TestPolicy_Disabled(t *testing.T) {
	var nilPolicy *Policy
	assert.False(t, nilPolicy.Enabled())
	assert.Nil(t, nilPolicy.ShouldPositionAtTop("Done", nil))

	empty := NewPolicy([]string{"", "  "})
	assert.False(t, empty.Enabled())
	assert.Nil(t, empty.ShouldPositionAtTop("Done", nil))
}
