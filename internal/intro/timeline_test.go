package intro

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTimeline_Valid(t *testing.T) {
	tl := DefaultTimeline()
	require.NoError(t, tl.Validate())
	assert.Equal(t, 3*time.Second, tl.Total())
}

func TestTimeline_ReducedMotionKeepsSteps(t *testing.T) {
	tl := DefaultTimeline()
	reduced := tl.ReducedMotion()

	require.Len(t, reduced.Steps, len(tl.Steps))
	for i := range tl.Steps {
		assert.Equal(t, tl.Steps[i].Target, reduced.Steps[i].Target)
		assert.Equal(t, tl.Steps[i].Property, reduced.Steps[i].Property)
		assert.Equal(t, tl.Steps[i].From, reduced.Steps[i].From)
		assert.Equal(t, tl.Steps[i].To, reduced.Steps[i].To)
		assert.LessOrEqual(t, reduced.Steps[i].Duration, tl.Steps[i].Duration)
	}
	assert.Equal(t, 600*time.Millisecond, reduced.Total())
}

func TestTimeline_Validate(t *testing.T) {
	tests := []struct {
		name string
		step Step
	}{
		{"missing target", Step{Property: "opacity"}},
		{"missing property", Step{Target: "logo"}},
		{"negative duration", Step{Target: "logo", Property: "opacity", Duration: -time.Second}},
		{"negative offset", Step{Target: "logo", Property: "opacity", Offset: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Timeline{Steps: []Step{tt.step}}.Validate()
			assert.Error(t, err)
		})
	}
}

func TestTimeline_EmptyTotal(t *testing.T) {
	assert.Equal(t, time.Duration(0), Timeline{}.Total())
}

func TestStep_JSONMilliseconds(t *testing.T) {
	step := Step{Target: "logo", Property: "opacity", From: 1, To: 0, Duration: 400 * time.Millisecond, Offset: 2300 * time.Millisecond}

	data, err := json.Marshal(step)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"durationMs":400`)
	assert.Contains(t, string(data), `"offsetMs":2300`)

	var decoded Step
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, step, decoded)
}

func TestTimeline_CompletionOrder(t *testing.T) {
	tl := Timeline{Steps: []Step{
		{Target: "a", Property: "p", Duration: 3 * time.Second},
		{Target: "b", Property: "p", Duration: time.Second},
		{Target: "c", Property: "p", Duration: time.Second},
	}}

	assert.Equal(t, []int{1, 2, 0}, tl.completionOrder())
}
