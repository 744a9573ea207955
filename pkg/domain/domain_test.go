package domain_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlight_Valid(t *testing.T) {
	tests := []struct {
		name string
		h    domain.Highlight
		n    int
		want bool
	}{
		{"sentinel", domain.NoHighlight, 0, true},
		{"inside", domain.Highlight{First: 0, Second: 4}, 5, true},
		{"at length", domain.Highlight{First: 0, Second: 5}, 5, false},
		{"half sentinel", domain.Highlight{First: 1, Second: domain.Sentinel}, 5, false},
		{"negative", domain.Highlight{First: -1, Second: 0}, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.h.Valid(tt.n))
		})
	}
}

func TestHighlight_Contains(t *testing.T) {
	h := domain.Highlight{First: 2, Second: 3}
	assert.True(t, h.Contains(2))
	assert.True(t, h.Contains(3))
	assert.False(t, h.Contains(4))
	assert.False(t, domain.NoHighlight.Contains(domain.Sentinel))
}

func TestReason_JSON(t *testing.T) {
	data, err := json.Marshal(domain.Frame{Reason: domain.Switching})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"reason":"switching"`)

	var f domain.Frame
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, domain.Switching, f.Reason)

	var r domain.Reason
	assert.Error(t, json.Unmarshal([]byte(`"sleeping"`), &r))
}

func TestHighlight_JSON(t *testing.T) {
	data, err := json.Marshal(domain.Frame{Highlight: domain.NoHighlight})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"highlight":null`)

	var f domain.Frame
	require.NoError(t, json.Unmarshal(data, &f))
	assert.True(t, f.Highlight.IsNone())

	data, err = json.Marshal(domain.Highlight{First: 2, Second: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"first":2,"second":3}`, string(data))

	var h domain.Highlight
	require.NoError(t, json.Unmarshal(data, &h))
	assert.Equal(t, domain.Highlight{First: 2, Second: 3}, h)
}

func TestSession_Snapshot(t *testing.T) {
	s := domain.NewSession("id", "bubble", []int{3, 1, 2}, 9)
	cp := s.Snapshot()
	cp.Original[0] = 100

	assert.Equal(t, 3, s.Original[0])
	assert.Equal(t, domain.StatusStart, cp.Status)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnStep: func(context.Context, *domain.StepEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnStep:  func(context.Context, *domain.StepEvent) { calls = append(calls, "b") },
		OnReset: func(context.Context, *domain.StepEvent) { calls = append(calls, "reset") },
	}

	merged := a.Merge(b)
	merged.OnStep(context.Background(), &domain.StepEvent{})
	merged.OnReset(context.Background(), &domain.StepEvent{})

	assert.Equal(t, []string{"a", "b", "reset"}, calls)
	assert.Nil(t, merged.OnFinish)
}
