package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppratick/canvas-to-reminders/internal/cache"
)

const summaryWordLimit = 20

// Summarizer turns assignment descriptions into one-line summaries and a set
// of assignments into a day-by-day study plan. Every generated text is cached
// through the injected store, so a cache hit never touches the model.
type Summarizer struct {
	client Client
	store  cache.Store
	logger *zap.Logger
}

// NewSummarizer wires a completion client to a cache store.
func NewSummarizer(client Client, store cache.Store, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{client: client, store: store, logger: logger}
}

// Summarize returns a one-sentence summary of the assignment description.
// Descriptions are HTML; they are flattened to text before prompting.
// An empty description yields an empty summary without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, assignmentID, description string) (string, error) {
	key := cache.Key(assignmentID, cache.KindSummary)
	if v, ok, err := s.store.Get(key); err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return v, nil
	}

	text := htmlToText(description)
	if text == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(
		"Summarize this assignment in one short sentence (max %d words). "+
			"Only return the summary — no intro or explanation.\n\n%s",
		summaryWordLimit, text)

	full, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize assignment %s: %w", assignmentID, err)
	}

	short := shorten(full)
	if err := s.store.Put(key, short); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return short, nil
}

// shorten keeps the first sentence, caps it at summaryWordLimit words, and
// makes sure it ends with a period.
func shorten(full string) string {
	short := full
	if i := strings.Index(full, "."); i >= 0 {
		short = full[:i]
	}
	words := strings.Fields(short)
	if len(words) > summaryWordLimit {
		words = words[:summaryWordLimit]
	}
	short = strings.Join(words, " ")
	if short != "" && !strings.HasSuffix(short, ".") {
		short += "."
	}
	return short
}

// PlanItem is one assignment fed into the study plan.
type PlanItem struct {
	Title  string
	Course string
	Due    time.Time
}

// PlanStats are the run-level numbers quoted in the plan prompt.
type PlanStats struct {
	AvgDaysUntilDue float64
	TopWeekday      string
}

// StudyPlan generates (or returns the cached) 7-day plan for the given
// assignments. The cache key is a digest of the sorted title/due pairs, so
// the same batch of assignments reuses the same plan.
func (s *Summarizer) StudyPlan(ctx context.Context, items []PlanItem, stats PlanStats, now time.Time, lookaheadDays int) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	if lookaheadDays <= 0 {
		lookaheadDays = 7
	}

	sorted := make([]PlanItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Due.Before(sorted[j].Due) })

	key := cache.Key(planDigest(sorted), cache.KindStrategy)
	if v, ok, err := s.store.Get(key); err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return v, nil
	}

	plan, err := s.client.Complete(ctx, buildPlanPrompt(sorted, stats, now, lookaheadDays))
	if err != nil {
		return "", fmt.Errorf("generate study plan: %w", err)
	}
	plan = strings.TrimSpace(plan)

	if err := s.store.Put(key, plan); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return plan, nil
}

func planDigest(sorted []PlanItem) string {
	var b strings.Builder
	for _, it := range sorted {
		b.WriteString(it.Title)
		b.WriteString("-")
		b.WriteString(it.Due.Format("01/02/2006"))
		b.WriteString("|")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

func buildPlanPrompt(sorted []PlanItem, stats PlanStats, now time.Time, lookaheadDays int) string {
	courseCounts := make(map[string]int)
	for _, it := range sorted {
		courseCounts[it.Course]++
	}
	topCourse := ""
	for course, n := range courseCounts {
		if topCourse == "" || n > courseCounts[topCourse] {
			topCourse = course
		}
	}

	var tasks []string
	for _, it := range sorted {
		tasks = append(tasks, fmt.Sprintf("- %s for %s (due %s)", it.Title, it.Course, it.Due.Format("01/02/2006")))
	}

	var days []string
	for i := 0; i < lookaheadDays; i++ {
		days = append(days, now.AddDate(0, 0, i).Format("Monday, January 2"))
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are helping a student plan their assignments across the next %d days. Here are some stats:

- %d total assignments synced
- Most assignments come from: %s
- Average days until due: %.1f
- Most common due day: %s

Assignments (sorted by due date):
%s

Suggest a day-by-day plan using these %d calendar days:
%s

Be specific about which assignments to work on each day.
Format it like:

Monday, April 1: Start X, Continue Y
Tuesday, April 2: Finish X...

Keep it brief but helpful — just 1-2 lines per day.
`, lookaheadDays, len(sorted), topCourse, stats.AvgDaysUntilDue, stats.TopWeekday,
		strings.Join(tasks, "\n"), lookaheadDays, strings.Join(days, ", ")))
}
