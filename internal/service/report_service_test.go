package service

import (
	"context"
	"testing"
	"time"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

func TestReportBuildAggregates(t *testing.T) {
	svc := NewReportService(&stubReportRepo{})
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return start.Add(17*time.Minute + 5*time.Second) })

	sess := newTestSession()
	sess.StartedAt = start
	sess.AnsweredCount = 8
	sess.Candidate = model.CandidateProfile{Name: "Ada"}
	intro := sess.Category(model.CategoryIntroduction)
	intro.Score, intro.Samples, intro.CriteriaMet, intro.CriteriaTotal = 16, 2, 4, 6
	comm := sess.Category(model.CategoryCommunication)
	comm.Score, comm.Samples = 9, 1

	report := svc.Build(sess)

	// 25 points over 3 samples.
	if report.OverallScore != 8.3 {
		t.Errorf("OverallScore = %v, want 8.3", report.OverallScore)
	}
	if report.TotalTime != "17m 05s" {
		t.Errorf("TotalTime = %q, want 17m 05s", report.TotalTime)
	}
	if report.QuestionCount != 8 {
		t.Errorf("QuestionCount = %d", report.QuestionCount)
	}
	if len(report.Categories) != len(sess.Categories) {
		t.Fatalf("categories = %d, want %d", len(report.Categories), len(sess.Categories))
	}

	var introReport, sqlReport *model.CategoryReport
	for i := range report.Categories {
		switch report.Categories[i].ID {
		case model.CategoryIntroduction:
			introReport = &report.Categories[i]
		case model.CategorySQL:
			sqlReport = &report.Categories[i]
		}
	}
	if introReport.Average != 8 || introReport.PerformanceLevel != model.LevelStrong {
		t.Errorf("introduction = avg %v level %q", introReport.Average, introReport.PerformanceLevel)
	}
	if len(introReport.Recommendations) == 0 {
		t.Error("introduction has no recommendations")
	}
	// Unanswered categories fall back to the rubric size for context.
	if sqlReport.Samples != 0 || sqlReport.CriteriaTotal != RubricSize(model.CategorySQL) {
		t.Errorf("sql category = %+v", sqlReport)
	}
}

func TestReportBuildEmptySession(t *testing.T) {
	svc := NewReportService(&stubReportRepo{})
	report := svc.Build(newTestSession())
	if report.OverallScore != 0 {
		t.Errorf("OverallScore = %v, want 0 with no samples", report.OverallScore)
	}
	if report.TotalTime != "00m 00s" {
		t.Errorf("TotalTime = %q", report.TotalTime)
	}
}

func TestPerformanceLevelBands(t *testing.T) {
	tests := []struct {
		average float64
		want    string
	}{
		{9.2, model.LevelExcellent},
		{8.5, model.LevelExcellent},
		{7.0, model.LevelStrong},
		{5.5, model.LevelCompetent},
		{4.0, model.LevelDeveloping},
		{3.9, model.LevelNeedsImprovement},
		{0, model.LevelNeedsImprovement},
	}
	for _, tt := range tests {
		if got := model.PerformanceLevel(tt.average); got != tt.want {
			t.Errorf("PerformanceLevel(%v) = %q, want %q", tt.average, got, tt.want)
		}
	}
}

func TestSaveFeedbackValidatesRating(t *testing.T) {
	repo := &stubReportRepo{}
	svc := NewReportService(repo)

	for _, rating := range []int{0, 6, -1} {
		if err := svc.SaveFeedback(context.Background(), "sess-1", rating, ""); err == nil {
			t.Errorf("rating %d accepted, want error", rating)
		}
	}
	if len(repo.feedback) != 0 {
		t.Fatal("invalid feedback was persisted")
	}

	if err := svc.SaveFeedback(context.Background(), "sess-1", 4, "smooth experience"); err != nil {
		t.Fatalf("valid feedback rejected: %v", err)
	}
	if len(repo.feedback) != 1 || repo.feedback[0].Rating != 4 {
		t.Errorf("feedback stored = %+v", repo.feedback)
	}
}
