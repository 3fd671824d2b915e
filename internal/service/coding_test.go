package service

import (
	"strings"
	"testing"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

func TestCodingLanguageAlternation(t *testing.T) {
	c := NewCodingController()
	if c.FirstLanguage() != model.LanguagePython {
		t.Fatalf("FirstLanguage = %q, want python", c.FirstLanguage())
	}

	lang := c.FirstLanguage()
	want := []string{model.LanguageSQL, model.LanguagePython, model.LanguageSQL}
	for i, w := range want {
		lang = c.NextLanguage(lang)
		if lang != w {
			t.Errorf("step %d: language = %q, want %q", i, lang, w)
		}
	}
}

func TestCodingQuestionIndexing(t *testing.T) {
	c := NewCodingController()

	q0 := c.Question(model.LanguagePython, 0)
	if !strings.Contains(q0.Prompt, "sum of all even numbers") {
		t.Errorf("python question 0 = %q", q0.Prompt)
	}
	if q0.Language != model.LanguagePython {
		t.Errorf("python question 0 language = %q", q0.Language)
	}

	q1 := c.Question(model.LanguageSQL, 1)
	if !strings.Contains(q1.Prompt, "average salary") {
		t.Errorf("sql question 1 = %q", q1.Prompt)
	}

	// Counts beyond the bank size wrap around.
	if got := c.Question(model.LanguagePython, 3); got.Prompt != q0.Prompt {
		t.Errorf("python question 3 = %q, want wrap to question 0", got.Prompt)
	}
	if got := c.Question(model.LanguageSQL, 4); got.Prompt != q1.Prompt {
		t.Errorf("sql question 4 = %q, want wrap to question 1", got.Prompt)
	}
}

func TestCodingCategoryFor(t *testing.T) {
	c := NewCodingController()
	if got := c.CategoryFor(model.LanguagePython); got != model.CategoryPythonCoding {
		t.Errorf("CategoryFor(python) = %q", got)
	}
	if got := c.CategoryFor(model.LanguageSQL); got != model.CategorySQL {
		t.Errorf("CategoryFor(sql) = %q", got)
	}
}

func TestScoreSubmissionPython(t *testing.T) {
	c := NewCodingController()

	full := "def sum_even(numbers):\n    total = 0\n    for n in numbers:\n        if n % 2 == 0:\n            total += n\n    return total"
	details := c.ScoreSubmission(model.LanguagePython, full, true, true)
	if details.Score != 10 {
		t.Errorf("full-signal submission score = %v, want 10", details.Score)
	}
	if details.CriteriaMet != details.CriteriaTotal {
		t.Errorf("criteria = %d/%d, want all met", details.CriteriaMet, details.CriteriaTotal)
	}

	// Same code unexecuted scores lower; empty code scores zero.
	unrun := c.ScoreSubmission(model.LanguagePython, full, false, false)
	if unrun.Score >= details.Score {
		t.Errorf("unexecuted score %v should be below executed score %v", unrun.Score, details.Score)
	}
	empty := c.ScoreSubmission(model.LanguagePython, "", false, false)
	if empty.Score != 0 {
		t.Errorf("empty submission score = %v, want 0", empty.Score)
	}
}

func TestScoreSubmissionRewardsConstructs(t *testing.T) {
	c := NewCodingController()

	flat := c.ScoreSubmission(model.LanguagePython, "x = 1\ny = 2\nprint(x + y)", true, true)
	structured := c.ScoreSubmission(model.LanguagePython, "def f(x):\n    if x > 0:\n        return x\n    return -x", true, true)
	if structured.Score <= flat.Score {
		t.Errorf("structured code %v should outscore flat code %v", structured.Score, flat.Score)
	}
}

func TestScoreSubmissionSQL(t *testing.T) {
	c := NewCodingController()

	query := "SELECT department, AVG(salary)\nFROM employees\nGROUP BY department;"
	details := c.ScoreSubmission(model.LanguageSQL, query, true, true)
	if details.Score != 10 {
		t.Errorf("full sql submission score = %v, want 10", details.Score)
	}

	bare := c.ScoreSubmission(model.LanguageSQL, "employees", false, false)
	if bare.Score >= details.Score {
		t.Errorf("bare text %v should score below a real query %v", bare.Score, details.Score)
	}
	for _, d := range []model.ScoreDetails{details, bare} {
		if d.Score < 0 || d.Score > 10 {
			t.Errorf("score %v outside [0,10]", d.Score)
		}
	}
}
