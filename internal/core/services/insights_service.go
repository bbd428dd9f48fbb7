package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

const DefaultInsightWeeks = 8

type InsightsService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	now         domain.Clock
}

func NewInsightsService(habits domain.HabitRepository, completions domain.CompletionRepository, now domain.Clock) *InsightsService {
	if now == nil {
		now = time.Now
	}
	return &InsightsService{
		habits:      habits,
		completions: completions,
		now:         now,
	}
}

// GetWeeklyInsights returns numWeeks Monday-start buckets, the current week
// first, each scored against the habit's target days. An unknown habit
// yields an empty slice.
func (s *InsightsService) GetWeeklyInsights(ctx context.Context, habitID string, numWeeks int) ([]domain.WeeklyInsight, error) {
	if numWeeks <= 0 {
		numWeeks = DefaultInsightWeeks
	}

	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return []domain.WeeklyInsight{}, nil
		}
		return nil, err
	}

	completions, err := s.completions.GetByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	perDate := make(map[string]int, len(completions))
	for _, c := range completions {
		perDate[c.Date] += c.Count
	}

	return WeeklyInsights(habit, perDate, s.now(), numWeeks), nil
}

// WeeklyInsights is the pure aggregation behind GetWeeklyInsights. perDate
// maps a YYYY-MM-DD date to the number of completions on it.
func WeeklyInsights(habit *domain.Habit, perDate map[string]int, today time.Time, numWeeks int) []domain.WeeklyInsight {
	anchor := WeekStart(today)

	insights := make([]domain.WeeklyInsight, 0, numWeeks)
	for i := 0; i < numWeeks; i++ {
		start := anchor.AddDate(0, 0, -7*i)

		targets := 0
		completed := 0
		for d := 0; d < 7; d++ {
			day := start.AddDate(0, 0, d)
			if !habit.IsDueOn(day) {
				continue
			}
			targets++
			if perDate[domain.FormatDate(day)] >= 1 {
				completed++
			}
		}

		rate := 0.0
		if targets > 0 {
			rate = min(1, float64(completed)/float64(targets))
		}

		insights = append(insights, domain.WeeklyInsight{
			WeekKey:        domain.FormatDate(start),
			WeekLabel:      WeekLabel(start),
			DaysCompleted:  completed,
			TargetDays:     targets,
			CompletionRate: rate,
		})
	}
	return insights
}

// WeekStart returns the Monday of t's week as a UTC calendar date.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -sinceMonday)
}

// WeekLabel renders a week range such as "Jan 27 – Feb 2".
func WeekLabel(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return start.Format("Jan 2") + " – " + end.Format("Jan 2")
}
