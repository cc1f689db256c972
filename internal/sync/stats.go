package sync

import "time"

// Stats summarizes the due dates of the assignments handled in one run.
type Stats struct {
	AvgDaysUntilDue float64
	TopWeekday      string
	Closest         *ClosestAssignment
}

// ClosestAssignment is the most urgent assignment of the run.
type ClosestAssignment struct {
	Title      string
	Course     string
	DueDisplay string
}

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

type statsAccumulator struct {
	totalDays     int
	count         int
	weekdayCounts map[string]int
	closest       *ClosestAssignment
	closestDays   int
}

func (s *statsAccumulator) observe(now, due time.Time, title, course string) {
	if s.weekdayCounts == nil {
		s.weekdayCounts = make(map[string]int)
	}
	days := int(due.Sub(now).Hours() / 24)
	s.totalDays += days
	s.count++
	s.weekdayCounts[due.Weekday().String()]++

	if s.closest == nil || days < s.closestDays {
		s.closestDays = days
		s.closest = &ClosestAssignment{
			Title:      title,
			Course:     course,
			DueDisplay: due.Format("01/02/2006"),
		}
	}
}

func (s *statsAccumulator) stats() Stats {
	if s.count == 0 {
		return Stats{}
	}
	top := ""
	for _, day := range weekdayOrder {
		if top == "" || s.weekdayCounts[day] > s.weekdayCounts[top] {
			if s.weekdayCounts[day] > 0 {
				top = day
			}
		}
	}
	return Stats{
		AvgDaysUntilDue: float64(s.totalDays) / float64(s.count),
		TopWeekday:      top,
		Closest:         s.closest,
	}
}
