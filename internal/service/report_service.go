package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
	"github.com/vinaythanay/Interview-ChatBOt/internal/repository"
)

// ReportService builds and persists the end-of-interview performance
// report and the candidate feedback form.
type ReportService struct {
	reports repository.ReportRepository
	now     func() time.Time
}

// NewReportService creates a report service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{
		reports: reports,
		now:     time.Now,
	}
}

// SetClock overrides the service clock. Test hook.
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// Build aggregates the session's categories into a report. Overall score
// is the mean of all per-answer scores across every category; sessions
// with no scored answers report zero rather than failing.
func (s *ReportService) Build(sess *model.Session) *model.PerformanceReport {
	totalScore, totalSamples := 0.0, 0
	categories := make([]model.CategoryReport, 0, len(sess.Categories))

	for _, cat := range sess.Categories {
		totalScore += cat.Score
		totalSamples += cat.Samples

		average := round1(cat.Average())
		level := model.PerformanceLevel(average)
		criteriaTotal := cat.CriteriaTotal
		if criteriaTotal == 0 {
			criteriaTotal = RubricSize(cat.ID)
		}
		categories = append(categories, model.CategoryReport{
			ID:               cat.ID,
			Label:            cat.Label,
			Average:          average,
			Samples:          cat.Samples,
			CriteriaMet:      cat.CriteriaMet,
			CriteriaTotal:    criteriaTotal,
			PerformanceLevel: level,
			Recommendations:  recommendationsFor(level, cat.Label),
		})
	}

	overall := 0.0
	if totalSamples > 0 {
		overall = round1(totalScore / float64(totalSamples))
	}

	return &model.PerformanceReport{
		SessionID:     sess.ID,
		Candidate:     sess.Candidate,
		OverallScore:  overall,
		TotalTime:     formatElapsed(sess.Elapsed(s.now())),
		QuestionCount: sess.AnsweredCount,
		Terminated:    sess.Terminated,
		Categories:    categories,
		GeneratedAt:   s.now(),
	}
}

// Save persists a report, logging rather than failing the session on a
// storage error.
func (s *ReportService) Save(ctx context.Context, report *model.PerformanceReport) error {
	if err := s.reports.Save(ctx, report); err != nil {
		log.Printf("[Report] Failed to save report for session %s: %v", report.SessionID, err)
		return err
	}
	return nil
}

// Get returns the persisted report for a session.
func (s *ReportService) Get(ctx context.Context, sessionID string) (*model.PerformanceReport, error) {
	return s.reports.GetBySessionID(ctx, sessionID)
}

// SaveFeedback stores the candidate's post-interview feedback.
func (s *ReportService) SaveFeedback(ctx context.Context, sessionID string, rating int, comments string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return s.reports.SaveFeedback(ctx, &model.Feedback{
		SessionID:   sessionID,
		Rating:      rating,
		Comments:    comments,
		SubmittedAt: s.now(),
	})
}

func recommendationsFor(level, label string) []string {
	switch level {
	case model.LevelExcellent:
		return []string{fmt.Sprintf("Keep up the strong, detailed answers in %s.", label)}
	case model.LevelStrong:
		return []string{fmt.Sprintf("Add measurable outcomes to push %s answers higher.", label)}
	case model.LevelCompetent:
		return []string{fmt.Sprintf("Structure %s answers around situation, action and result.", label)}
	case model.LevelDeveloping:
		return []string{
			fmt.Sprintf("Prepare concrete examples for %s ahead of time.", label),
			"Expand short answers with specifics.",
		}
	default:
		return []string{
			fmt.Sprintf("Review the fundamentals behind %s.", label),
			"Practice answering out loud with a time limit.",
		}
	}
}

// formatElapsed renders a duration as "MMm SSs".
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02dm %02ds", minutes, seconds)
}
