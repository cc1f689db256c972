// Package sync orchestrates one run: fetch upcoming Canvas assignments,
// summarize them, write reminders, and produce the report and study plan.
package sync

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppratick/canvas-to-reminders/internal/cache"
	"github.com/ppratick/canvas-to-reminders/internal/canvas"
	"github.com/ppratick/canvas-to-reminders/internal/llm"
	"github.com/ppratick/canvas-to-reminders/internal/reminders"
)

// CourseSource is the slice of the Canvas client the syncer needs.
type CourseSource interface {
	FavoriteCourses(ctx context.Context) ([]canvas.Course, error)
	Assignments(ctx context.Context, courseID int64) ([]canvas.Assignment, error)
}

// TextGenerator is the slice of the summarizer the syncer needs.
type TextGenerator interface {
	Summarize(ctx context.Context, assignmentID, description string) (string, error)
	StudyPlan(ctx context.Context, items []llm.PlanItem, stats llm.PlanStats, now time.Time, lookaheadDays int) (string, error)
}

// Options tune a single run.
type Options struct {
	// DryRun skips reminder writes and the synced ledger but still
	// summarizes, reports, and plans.
	DryRun bool
	// IncludeSynced also considers assignments already recorded in the
	// synced ledger. The plan command uses this so a plan covers
	// everything upcoming, not just what this run added.
	IncludeSynced bool
}

// AddedReminder is one reminder recorded in the run report.
type AddedReminder struct {
	Title      string
	DueDisplay string // 01/02/2006
}

// Result is everything a run produced, for the report and for tests.
type Result struct {
	RunID       string
	TotalAdded  int
	CourseOrder []string
	ByCourse    map[string][]AddedReminder
	Stats       Stats
	Plan        string
}

// Syncer wires the collaborators together. All dependencies are interfaces
// so tests can swap in fakes.
type Syncer struct {
	source      CourseSource
	gen         TextGenerator
	writer      reminders.Writer
	store       cache.Store
	courseLists map[string]string
	lookahead   int
	logger      *zap.Logger
	now         func() time.Time
}

// New builds a Syncer. courseLists maps Canvas course names to Reminders
// list names; unmapped courses are skipped.
func New(source CourseSource, gen TextGenerator, writer reminders.Writer, store cache.Store,
	courseLists map[string]string, lookaheadDays int, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lookaheadDays <= 0 {
		lookaheadDays = 7
	}
	return &Syncer{
		source:      source,
		gen:         gen,
		writer:      writer,
		store:       store,
		courseLists: courseLists,
		lookahead:   lookaheadDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one sync. A Canvas listing failure (including rejected
// credentials) aborts; everything past that point degrades per assignment.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))
	now := s.now()

	courses, err := s.source.FavoriteCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync aborted: %w", err)
	}
	log.Info("fetched favorite courses", zap.Int("count", len(courses)))

	res := &Result{
		RunID:    runID,
		ByCourse: make(map[string][]AddedReminder),
	}
	var acc statsAccumulator
	var planItems []llm.PlanItem

	for _, course := range courses {
		list, ok := s.courseLists[course.Name]
		if course.ID == 0 || !ok {
			log.Debug("skipping unmapped course", zap.String("course", course.Name))
			continue
		}

		assignments, err := s.source.Assignments(ctx, course.ID)
		if err != nil {
			log.Warn("failed to fetch assignments, skipping course",
				zap.String("course", course.Name), zap.Error(err))
			continue
		}
		sortByDueDate(assignments)

		for _, a := range assignments {
			id := strconv.FormatInt(a.ID, 10)
			if !opts.IncludeSynced {
				seen, err := s.store.Seen(id)
				if err != nil {
					log.Warn("synced ledger read failed", zap.String("assignment", id), zap.Error(err))
				} else if seen {
					continue
				}
			}
			if a.Submitted() || a.DueAt == nil {
				continue
			}
			due := *a.DueAt
			if !due.After(now) {
				continue
			}

			acc.observe(now, due, a.Name, course.Name)

			summary := ""
			if a.Description != "" {
				summary, err = s.gen.Summarize(ctx, id, a.Description)
				if err != nil {
					log.Warn("summarization failed, reminder gets empty notes",
						zap.String("assignment", id), zap.Error(err))
					summary = ""
				}
			}

			if !opts.DryRun {
				// Replace any stale copy of this reminder first.
				if err := s.writer.Complete(ctx, list, a.Name); err != nil {
					log.Warn("could not complete existing reminder",
						zap.String("title", a.Name), zap.Error(err))
				}
				if err := s.writer.Add(ctx, reminders.Reminder{
					List:  list,
					Title: a.Name,
					Due:   due,
					Notes: summary,
				}); err != nil {
					log.Warn("reminder write failed, skipping assignment",
						zap.String("title", a.Name), zap.Error(err))
					continue
				}
				if err := s.store.MarkSeen(id); err != nil {
					log.Warn("could not record synced assignment",
						zap.String("assignment", id), zap.Error(err))
				}
			}

			if _, exists := res.ByCourse[course.Name]; !exists {
				res.CourseOrder = append(res.CourseOrder, course.Name)
			}
			res.ByCourse[course.Name] = append(res.ByCourse[course.Name], AddedReminder{
				Title:      a.Name,
				DueDisplay: due.Format("01/02/2006"),
			})
			res.TotalAdded++
			planItems = append(planItems, llm.PlanItem{
				Title:  a.Name,
				Course: course.Name,
				Due:    due,
			})
		}
	}

	res.Stats = acc.stats()

	if res.TotalAdded > 0 {
		plan, err := s.gen.StudyPlan(ctx, planItems, llm.PlanStats{
			AvgDaysUntilDue: res.Stats.AvgDaysUntilDue,
			TopWeekday:      res.Stats.TopWeekday,
		}, now, s.lookahead)
		if err != nil {
			log.Warn("study plan generation failed", zap.Error(err))
		} else {
			res.Plan = plan
		}
	}

	log.Info("sync finished",
		zap.Int("reminders_added", res.TotalAdded),
		zap.Int("courses", len(res.CourseOrder)),
		zap.Bool("dry_run", opts.DryRun))
	return res, nil
}

// sortByDueDate orders assignments by due date, undated last.
func sortByDueDate(assignments []canvas.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		di, dj := assignments[i].DueAt, assignments[j].DueAt
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
}
