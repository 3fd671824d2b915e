package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	defaultPistonURL = "https://emkc.org/api/v2/piston/execute"
	pythonVersion    = "3.10.0"
)

// Piston sometimes reports interpreter errors on stdout with a zero-ish
// envelope, so stdout is scanned for the usual Python error signatures.
var pythonErrorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Traceback \(most recent call last\)`),
	regexp.MustCompile(`(?i)TypeError:`),
	regexp.MustCompile(`(?i)NameError:`),
	regexp.MustCompile(`(?i)ValueError:`),
	regexp.MustCompile(`(?i)IndexError:`),
	regexp.MustCompile(`(?i)KeyError:`),
	regexp.MustCompile(`(?i)AttributeError:`),
	regexp.MustCompile(`(?i)IndentationError:`),
	regexp.MustCompile(`(?i)SyntaxError:`),
	regexp.MustCompile(`(?i)FileNotFoundError:`),
	regexp.MustCompile(`(?i)ZeroDivisionError:`),
}

// ExecutionResult is the outcome of a run-code or validate-sql request.
type ExecutionResult struct {
	Output    string `json:"output"`
	Success   bool   `json:"success"`
	ErrorType string `json:"errorType,omitempty"`
	Message   string `json:"message,omitempty"`
}

// CodeRunner executes Python via the Piston sandbox and structurally
// validates SQL. Execution is advisory only; submissions are scored by the
// rubric regardless of run results.
type CodeRunner struct {
	client  *http.Client
	baseURL string
}

// NewCodeRunner creates a code runner against the public Piston API.
func NewCodeRunner() *CodeRunner {
	return &CodeRunner{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultPistonURL,
	}
}

// NewCodeRunnerWithURL creates a code runner against a custom endpoint.
func NewCodeRunnerWithURL(baseURL string) *CodeRunner {
	r := NewCodeRunner()
	r.baseURL = baseURL
	return r
}

type pistonRequest struct {
	Language       string       `json:"language"`
	Version        string       `json:"version"`
	Files          []pistonFile `json:"files"`
	Stdin          string       `json:"stdin"`
	Args           []string     `json:"args"`
	CompileTimeout int          `json:"compile_timeout"`
	RunTimeout     int          `json:"run_timeout"`
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonResponse struct {
	Compile *pistonStage `json:"compile,omitempty"`
	Run     *pistonStage `json:"run,omitempty"`
}

type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   int    `json:"code"`
	Signal string `json:"signal"`
}

// ExecutePython runs the code in the Piston sandbox and classifies the
// outcome. A non-nil error means the sandbox itself was unreachable.
func (r *CodeRunner) ExecutePython(ctx context.Context, code string) (*ExecutionResult, error) {
	reqBody := pistonRequest{
		Language:       "python",
		Version:        pythonVersion,
		Files:          []pistonFile{{Content: code}},
		Args:           []string{},
		CompileTimeout: 10000,
		RunTimeout:     10000,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", r.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("code execution service unavailable: status %d", resp.StatusCode)
	}

	var data pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	if data.Compile != nil && data.Compile.Code != 0 {
		out := data.Compile.Stdout
		if out == "" {
			out = data.Compile.Stderr
		}
		return &ExecutionResult{
			Output:    "COMPILATION ERROR:\n" + out,
			Success:   false,
			ErrorType: "compilation",
		}, nil
	}

	var stdout, stderr string
	exitCode := 0
	signal := ""
	if data.Run != nil {
		stdout = data.Run.Stdout
		stderr = data.Run.Stderr
		exitCode = data.Run.Code
		signal = data.Run.Signal
	}

	stdoutHasError := false
	for _, p := range pythonErrorPatterns {
		if p.MatchString(stdout) {
			stdoutHasError = true
			break
		}
	}
	stderrHasError := strings.TrimSpace(stderr) != ""

	if stderrHasError || stdoutHasError || signal != "" || exitCode != 0 {
		errorText := stderr
		if errorText == "" && stdoutHasError {
			errorText = stdout
		}
		if errorText == "" {
			errorText = fmt.Sprintf("Program exited with code %d", exitCode)
		}
		log.Printf("[CodeRunner] Python execution failed: exit=%d signal=%q", exitCode, signal)
		return &ExecutionResult{Output: errorText, Success: false, ErrorType: "runtime"}, nil
	}

	output := stdout
	if strings.TrimSpace(output) == "" {
		output = "Code executed successfully (no output)."
	}
	return &ExecutionResult{Output: output, Success: true}, nil
}

// ValidateSQL performs structural validation of a query. There is no test
// database; the check only confirms the query has statement and clause
// keywords.
func (r *CodeRunner) ValidateSQL(query string) *ExecutionResult {
	sqlUpper := strings.ToUpper(strings.TrimSpace(query))

	isValid := strings.Contains(sqlUpper, "SELECT") || strings.Contains(sqlUpper, "INSERT") ||
		strings.Contains(sqlUpper, "UPDATE") || strings.Contains(sqlUpper, "DELETE")
	hasStructure := strings.Contains(sqlUpper, "FROM") || strings.Contains(sqlUpper, "WHERE") ||
		strings.Contains(sqlUpper, "GROUP BY") || strings.Contains(sqlUpper, "ORDER BY")

	msg := "SQL query structure looks valid"
	if !isValid {
		msg = "Please check your SQL query syntax"
	}
	output := "Query validated successfully.\n\nExecuting query would return:\n[Sample data based on query structure]"
	if !hasStructure {
		output = "Query accepted, but no FROM/WHERE/GROUP BY/ORDER BY clause detected."
	}

	return &ExecutionResult{Output: output, Success: isValid, Message: msg}
}
