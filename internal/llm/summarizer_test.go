package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppratick/canvas-to-reminders/internal/cache"
)

// countingClient records calls and replays canned responses.
type countingClient struct {
	calls    int
	response string
	err      error
	prompts  []string
}

func (c *countingClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	return c.response, c.err
}

func TestSummarizeCachesResult(t *testing.T) {
	client := &countingClient{response: "Write a short essay on utilitarian ethics. It should cover Mill and Bentham."}
	store := cache.NewMemoryStore()
	s := NewSummarizer(client, store, nil)

	first, err := s.Summarize(context.Background(), "42", "<p>Essay on ethics</p>")
	require.NoError(t, err)
	assert.Equal(t, "Write a short essay on utilitarian ethics.", first)
	assert.Equal(t, 1, client.calls)

	// Second request is served from the cache; the model is not called again.
	second, err := s.Summarize(context.Background(), "42", "<p>Essay on ethics</p>")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls)
}

func TestSummarizeEmptyDescription(t *testing.T) {
	client := &countingClient{response: "should not be called"}
	s := NewSummarizer(client, cache.NewMemoryStore(), nil)

	out, err := s.Summarize(context.Background(), "1", "   ")
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, 0, client.calls)
}

func TestSummarizeStripsHTML(t *testing.T) {
	client := &countingClient{response: "Do the reading."}
	s := NewSummarizer(client, cache.NewMemoryStore(), nil)

	_, err := s.Summarize(context.Background(), "1", "<div><h2>Week 3</h2><p>Read <b>chapter 4</b> before lab.</p></div>")
	require.NoError(t, err)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Week 3 Read chapter 4 before lab.")
	assert.NotContains(t, client.prompts[0], "<p>")
}

func TestSummarizeError(t *testing.T) {
	client := &countingClient{err: errors.New("model not loaded")}
	s := NewSummarizer(client, cache.NewMemoryStore(), nil)

	_, err := s.Summarize(context.Background(), "9", "something")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assignment 9")
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "first sentence only",
			in:   "Build a parser. Then write tests for it.",
			want: "Build a parser.",
		},
		{
			name: "word cap",
			in:   strings.Repeat("word ", 30),
			want: strings.TrimSpace(strings.Repeat("word ", 20)) + ".",
		},
		{
			name: "adds trailing period",
			in:   "Read the handout",
			want: "Read the handout.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shorten(tt.in))
		})
	}
}

func TestStudyPlanCachedByBatch(t *testing.T) {
	client := &countingClient{response: "Monday: start Homework 3."}
	store := cache.NewMemoryStore()
	s := NewSummarizer(client, store, nil)

	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	batch := []PlanItem{
		{Title: "Homework 3", Course: "15-150", Due: now.AddDate(0, 0, 3)},
		{Title: "Essay 1", Course: "70-332", Due: now.AddDate(0, 0, 5)},
	}
	stats := PlanStats{AvgDaysUntilDue: 4.0, TopWeekday: "Thursday"}

	plan, err := s.StudyPlan(context.Background(), batch, stats, now, 7)
	require.NoError(t, err)
	assert.Equal(t, "Monday: start Homework 3.", plan)
	assert.Equal(t, 1, client.calls)

	// Same batch, same plan, no second model call.
	again, err := s.StudyPlan(context.Background(), batch, stats, now, 7)
	require.NoError(t, err)
	assert.Equal(t, plan, again)
	assert.Equal(t, 1, client.calls)

	// A different batch gets its own key and a fresh call.
	other := append(batch, PlanItem{Title: "Lab 2", Course: "15-150", Due: now.AddDate(0, 0, 6)})
	_, err = s.StudyPlan(context.Background(), other, stats, now, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestStudyPlanPrompt(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC) // a Monday
	items := []PlanItem{
		{Title: "Essay 1", Course: "70-332", Due: now.AddDate(0, 0, 5)},
		{Title: "Homework 3", Course: "15-150", Due: now.AddDate(0, 0, 3)},
		{Title: "Lab 2", Course: "15-150", Due: now.AddDate(0, 0, 6)},
	}

	client := &countingClient{response: "plan"}
	s := NewSummarizer(client, cache.NewMemoryStore(), nil)
	_, err := s.StudyPlan(context.Background(), items, PlanStats{AvgDaysUntilDue: 4.7, TopWeekday: "Thursday"}, now, 7)
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "3 total assignments synced")
	assert.Contains(t, prompt, "Most assignments come from: 15-150")
	assert.Contains(t, prompt, "Average days until due: 4.7")
	assert.Contains(t, prompt, "Most common due day: Thursday")
	assert.Contains(t, prompt, "Monday, August 24")
	// Sorted by due date: Homework 3 first.
	assert.Less(t, strings.Index(prompt, "Homework 3"), strings.Index(prompt, "Essay 1"))
}

func TestStudyPlanEmptyBatch(t *testing.T) {
	client := &countingClient{response: "plan"}
	s := NewSummarizer(client, cache.NewMemoryStore(), nil)

	plan, err := s.StudyPlan(context.Background(), nil, PlanStats{}, time.Now(), 7)
	require.NoError(t, err)
	assert.Equal(t, "", plan)
	assert.Equal(t, 0, client.calls)
}
