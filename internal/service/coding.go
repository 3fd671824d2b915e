package service

import (
	"strings"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

var pythonBank = []model.CodingQuestion{
	{
		Prompt:      "Write a Python function that takes a list of numbers and returns the sum of all even numbers in the list.",
		Example:     "Example: sum_even([1, 2, 3, 4, 5, 6]) should return 12",
		StarterCode: "def sum_even(numbers):\n    # Your code here\n    pass\n\n# Test your function\nprint(sum_even([1, 2, 3, 4, 5, 6]))",
		Language:    model.LanguagePython,
	},
	{
		Prompt:      "Write a Python function that checks if a string is a palindrome (reads the same forwards and backwards).",
		Example:     "Example: is_palindrome('racecar') should return True, is_palindrome('hello') should return False",
		StarterCode: "def is_palindrome(s):\n    # Your code here\n    pass\n\n# Test your function\nprint(is_palindrome('racecar'))\nprint(is_palindrome('hello'))",
		Language:    model.LanguagePython,
	},
	{
		Prompt:      "Write a Python function that finds the maximum number in a list without using the built-in max() function.",
		Example:     "Example: find_max([3, 7, 2, 9, 1]) should return 9",
		StarterCode: "def find_max(numbers):\n    # Your code here\n    pass\n\n# Test your function\nprint(find_max([3, 7, 2, 9, 1]))",
		Language:    model.LanguagePython,
	},
}

var sqlBank = []model.CodingQuestion{
	{
		Prompt:      "Write a SQL query to find all employees who have a salary greater than 50000 and work in the 'Engineering' department.",
		Example:     "Table: employees (id, name, salary, department)",
		StarterCode: "-- Write your SQL query here\nSELECT * FROM employees\nWHERE salary > 50000 AND department = 'Engineering';",
		Language:    model.LanguageSQL,
	},
	{
		Prompt:      "Write a SQL query to find the average salary for each department.",
		Example:     "Table: employees (id, name, salary, department)",
		StarterCode: "-- Write your SQL query here\nSELECT department, AVG(salary) as avg_salary\nFROM employees\nGROUP BY department;",
		Language:    model.LanguageSQL,
	},
	{
		Prompt:      "Write a SQL query to find the top 3 highest paid employees.",
		Example:     "Table: employees (id, name, salary)",
		StarterCode: "-- Write your SQL query here\nSELECT * FROM employees\nORDER BY salary DESC\nLIMIT 3;",
		Language:    model.LanguageSQL,
	},
}

// CodingController owns the coding sub-phase question banks and language
// rotation. Sessions start with Python and alternate after each submission.
type CodingController struct{}

// NewCodingController creates a coding controller.
func NewCodingController() *CodingController {
	return &CodingController{}
}

// FirstLanguage is where every coding section starts.
func (c *CodingController) FirstLanguage() string {
	return model.LanguagePython
}

// NextLanguage alternates the bank after a submission.
func (c *CodingController) NextLanguage(current string) string {
	if current == model.LanguagePython {
		return model.LanguageSQL
	}
	return model.LanguagePython
}

// Question returns the coding question for the given language and
// submission count. Banks wrap around if the count exceeds their size.
func (c *CodingController) Question(language string, count int) model.CodingQuestion {
	if language == model.LanguageSQL {
		return sqlBank[count%len(sqlBank)]
	}
	return pythonBank[count%len(pythonBank)]
}

// ScoreSubmission scores a coding submission on structural signals. The
// weighted sum mirrors the rubric evaluator; there is no semantic check of
// correctness beyond whether an actual run succeeded.
func (c *CodingController) ScoreSubmission(language, code string, executed, execSucceeded bool) model.ScoreDetails {
	lower := strings.ToLower(code)

	type signal struct {
		met    bool
		weight float64
	}
	var signals []signal

	lines := 0
	for _, l := range strings.Split(code, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	signals = append(signals, signal{lines >= 3, 1})

	if language == model.LanguageSQL {
		signals = append(signals,
			signal{strings.Contains(lower, "select") || strings.Contains(lower, "insert") ||
				strings.Contains(lower, "update") || strings.Contains(lower, "delete"), 2},
			signal{strings.Contains(lower, "join") || strings.Contains(lower, "where") ||
				strings.Contains(lower, "group by") || strings.Contains(lower, "order by"), 1.5},
		)
	} else {
		signals = append(signals,
			signal{strings.Contains(lower, "def ") || strings.Contains(lower, "lambda"), 2},
			signal{strings.Contains(lower, "if ") || strings.Contains(lower, "for ") ||
				strings.Contains(lower, "while "), 1.5},
		)
	}

	signals = append(signals,
		signal{executed, 1},
		signal{execSucceeded, 1.5},
	)

	earned, total := 0.0, 0.0
	met := 0
	for _, s := range signals {
		total += s.weight
		if s.met {
			earned += s.weight
			met++
		}
	}

	return model.ScoreDetails{
		Score:         round1(clamp(earned/total*10, 0, 10)),
		CriteriaMet:   met,
		CriteriaTotal: len(signals),
	}
}

// CategoryFor maps a coding language to its evaluation category.
func (c *CodingController) CategoryFor(language string) string {
	if language == model.LanguageSQL {
		return model.CategorySQL
	}
	return model.CategoryPythonCoding
}
