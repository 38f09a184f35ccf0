// Package intro implements the one-shot intro gate shown before the page content.
package intro

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ReducedMotionFactor scales every duration and offset when the user prefers reduced motion.
const ReducedMotionFactor = 0.2

// Step is one declarative animation step: animate Property of Target from From to To,
// starting Offset after the timeline start and lasting Duration.
type Step struct {
	Target   string
	Property string
	From     float64
	To       float64
	Duration time.Duration
	Offset   time.Duration
}

// End returns the time at which the step completes, relative to the timeline start.
func (s Step) End() time.Duration {
	return s.Offset + s.Duration
}

type stepJSON struct {
	Target     string  `json:"target"`
	Property   string  `json:"property"`
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	DurationMS int64   `json:"durationMs"`
	OffsetMS   int64   `json:"offsetMs"`
}

// MarshalJSON encodes durations as integer milliseconds for browser consumption.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(stepJSON{
		Target:     s.Target,
		Property:   s.Property,
		From:       s.From,
		To:         s.To,
		DurationMS: s.Duration.Milliseconds(),
		OffsetMS:   s.Offset.Milliseconds(),
	})
}

// UnmarshalJSON decodes the millisecond form produced by MarshalJSON.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw stepJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Step{
		Target:   raw.Target,
		Property: raw.Property,
		From:     raw.From,
		To:       raw.To,
		Duration: time.Duration(raw.DurationMS) * time.Millisecond,
		Offset:   time.Duration(raw.OffsetMS) * time.Millisecond,
	}
	return nil
}

// Timeline is an ordered list of steps. Steps may overlap.
type Timeline struct {
	Steps []Step `json:"steps"`
}

// DefaultTimeline is the logo loader: draw the outline, fill it, pulse, then fade the
// logo and the loader overlay.
func DefaultTimeline() Timeline {
	return Timeline{Steps: []Step{
		{Target: "logo-path", Property: "strokeDashoffset", From: 1000, To: 0, Duration: 1500 * time.Millisecond, Offset: 0},
		{Target: "logo-path", Property: "fillOpacity", From: 0, To: 1, Duration: 500 * time.Millisecond, Offset: 1500 * time.Millisecond},
		{Target: "logo", Property: "scale", From: 1, To: 1.2, Duration: 300 * time.Millisecond, Offset: 2000 * time.Millisecond},
		{Target: "logo", Property: "opacity", From: 1, To: 0, Duration: 400 * time.Millisecond, Offset: 2300 * time.Millisecond},
		{Target: "loader", Property: "opacity", From: 1, To: 0, Duration: 500 * time.Millisecond, Offset: 2500 * time.Millisecond},
	}}
}

// Validate rejects steps with negative timing or missing target/property.
func (t Timeline) Validate() error {
	for i, s := range t.Steps {
		if s.Target == "" || s.Property == "" {
			return fmt.Errorf("step %d: target and property are required", i)
		}
		if s.Duration < 0 {
			return fmt.Errorf("step %d: negative duration %s", i, s.Duration)
		}
		if s.Offset < 0 {
			return fmt.Errorf("step %d: negative offset %s", i, s.Offset)
		}
	}
	return nil
}

// Total returns the end time of the last step to complete.
func (t Timeline) Total() time.Duration {
	var total time.Duration
	for _, s := range t.Steps {
		if end := s.End(); end > total {
			total = end
		}
	}
	return total
}

// Scaled returns a copy with every duration and offset multiplied by factor.
// Steps, order and values are unchanged.
func (t Timeline) Scaled(factor float64) Timeline {
	out := Timeline{Steps: make([]Step, len(t.Steps))}
	for i, s := range t.Steps {
		s.Duration = time.Duration(float64(s.Duration) * factor)
		s.Offset = time.Duration(float64(s.Offset) * factor)
		out.Steps[i] = s
	}
	return out
}

// ReducedMotion returns the shortened timeline used when reduced motion is preferred.
func (t Timeline) ReducedMotion() Timeline {
	return t.Scaled(ReducedMotionFactor)
}

// completionOrder returns step indices ordered by completion time. Ties keep declaration order.
func (t Timeline) completionOrder() []int {
	order := make([]int, len(t.Steps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Steps[order[a]].End() < t.Steps[order[b]].End()
	})
	return order
}
