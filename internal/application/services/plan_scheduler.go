package services

import (
	"fmt"
	"strings"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

var intensityMultipliers = map[string]float64{
	"light":     0.7,
	"moderate":  1.0,
	"intensive": 1.3,
}

// IntensityMultiplier returns the study-time factor for an intensity label.
// Unknown labels count as moderate.
func IntensityMultiplier(intensity string) float64 {
	if m, ok := intensityMultipliers[strings.ToLower(strings.TrimSpace(intensity))]; ok {
		return m
	}
	return 1.0
}

// PlanContext carries the goal text used to word filler activities
type PlanContext struct {
	Topic       string
	Description string
}

// AllottedDays returns how many consecutive days rec may occupy in a plan of
// totalDays: its estimated duration scaled by intensity, at least one day and
// never more than a third of the plan.
func AllottedDays(rec entities.Recommendation, totalDays int, intensity string) int {
	days := int(float64(EstimateDays(rec.Duration)) * IntensityMultiplier(intensity))
	if days < 1 {
		days = 1
	}
	limit := totalDays / 3
	if limit < 1 {
		limit = 1
	}
	if days > limit {
		days = limit
	}
	return days
}

// SchedulePlan lays recommendations out over days 1..totalDays in merge order
// and fills every remaining day with a filler activity. The result always
// has exactly totalDays entries, one per day.
func SchedulePlan(recs []entities.Recommendation, totalDays int, intensity string, pc PlanContext) []entities.PlanEntry {
	if totalDays < 1 {
		return []entities.PlanEntry{}
	}

	plan := make([]entities.PlanEntry, 0, totalDays)
	day := 1
	for _, rec := range recs {
		if day > totalDays {
			break
		}
		allotted := AllottedDays(rec, totalDays, intensity)
		for i := 0; i < allotted && day <= totalDays; i++ {
			entry := entities.PlanEntry{Day: day, Recommendation: rec}
			entry.Prerequisites = copyStrings(rec.Prerequisites)
			plan = append(plan, entry)
			day++
		}
	}

	for ; day <= totalDays; day++ {
		plan = append(plan, FillerActivity(day, totalDays, pc))
	}
	return plan
}

// FillerActivity synthesizes the activity for an uncovered day. The first
// matching rule wins: every 7th day is a project milestone, every 5th a
// practice session, every 3rd a research session; otherwise the share of the
// plan already elapsed picks advanced study (>80%), intermediate practice
// (>60%) or foundations.
func FillerActivity(day, totalDays int, pc PlanContext) entities.PlanEntry {
	progress := float64(day) / float64(totalDays)
	topic := pc.Topic

	var rec entities.Recommendation
	switch {
	case day%7 == 0:
		rec = entities.Recommendation{
			Title:           fmt.Sprintf("Week %d milestone: %s project", day/7, topic),
			Type:            "Project",
			Description:     fmt.Sprintf("Build a small project that applies this week's %s material. Goal: %s", topic, pc.Description),
			Duration:        "2-3 hours",
			Difficulty:      3,
			URL:             "https://github.com/trending",
			Icon:            "fas fa-project-diagram",
			RelevanceScore:  8,
			LearningOutcome: fmt.Sprintf("Consolidate week %d of %s through hands-on work", day/7, topic),
		}
	case day%5 == 0:
		rec = entities.Recommendation{
			Title:           fmt.Sprintf("Practice session: %s hands-on exercises", topic),
			Type:            "Practice",
			Description:     fmt.Sprintf("Work through exercises that reinforce recent %s concepts. Goal: %s", topic, pc.Description),
			Duration:        "1-2 hours",
			Difficulty:      2,
			URL:             "https://www.kaggle.com/learn",
			Icon:            "fas fa-dumbbell",
			RelevanceScore:  7,
			LearningOutcome: fmt.Sprintf("Reinforce %s fundamentals through practice", topic),
		}
	case day%3 == 0:
		rec = entities.Recommendation{
			Title:           fmt.Sprintf("Research: latest trends in %s", topic),
			Type:            "Research",
			Description:     fmt.Sprintf("Read recent articles and case studies about %s. Goal: %s", topic, pc.Description),
			Duration:        "1 hour",
			Difficulty:      2,
			URL:             "https://medium.com/",
			Icon:            "fas fa-search",
			RelevanceScore:  6,
			LearningOutcome: fmt.Sprintf("Stay current with developments in %s", topic),
		}
	case progress > 0.8:
		rec = entities.Recommendation{
			Title:           fmt.Sprintf("Advanced study: %s advanced concepts", topic),
			Type:            "Advanced Study",
			Description:     fmt.Sprintf("Study advanced %s techniques and recent research papers. Goal: %s", topic, pc.Description),
			Duration:        "1.5 hours",
			Difficulty:      4,
			URL:             "https://paperswithcode.com/",
			Icon:            "fas fa-rocket",
			RelevanceScore:  7,
			LearningOutcome: fmt.Sprintf("Reach an advanced understanding of %s", topic),
		}
	case progress > 0.6:
		rec = entities.Recommendation{
			Title:           fmt.Sprintf("Intermediate practice: %s harder problems", topic),
			Type:            "Practice",
			Description:     fmt.Sprintf("Solve harder %s problems to deepen your skills. Goal: %s", topic, pc.Description),
			Duration:        "1.5 hours",
			Difficulty:      3,
			URL:             "https://leetcode.com/",
			Icon:            "fas fa-cogs",
			RelevanceScore:  7,
			LearningOutcome: fmt.Sprintf("Strengthen problem solving in %s", topic),
		}
	default:
		rec = entities.Recommendation{
			Title:           fmt.Sprintf("Foundations: %s core concepts", topic),
			Type:            "Study",
			Description:     fmt.Sprintf("Review the core concepts of %s. Goal: %s", topic, pc.Description),
			Duration:        "1 hour",
			Difficulty:      2,
			URL:             "https://www.khanacademy.org/",
			Icon:            "fas fa-book",
			RelevanceScore:  6,
			LearningOutcome: fmt.Sprintf("Build a solid foundation in %s", topic),
		}
	}

	rec.Prerequisites = []string{}
	rec.IsCurated = false
	rec.Priority = 1.0
	rec.Provider = "Learning Plan"
	rec.Author = "Plan Scheduler"
	return entities.PlanEntry{Day: day, Recommendation: rec}
}
