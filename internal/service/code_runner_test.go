package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func pistonStub(t *testing.T, resp pistonResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req pistonRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Language != "python" || req.Version != pythonVersion {
			t.Errorf("request language/version = %s/%s", req.Language, req.Version)
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestExecutePythonSuccess(t *testing.T) {
	srv := pistonStub(t, pistonResponse{Run: &pistonStage{Stdout: "12\n"}})
	defer srv.Close()

	result, err := NewCodeRunnerWithURL(srv.URL).ExecutePython(context.Background(), "print(12)")
	if err != nil {
		t.Fatalf("ExecutePython: %v", err)
	}
	if !result.Success || result.Output != "12\n" {
		t.Errorf("result = %+v", result)
	}
}

func TestExecutePythonNoOutput(t *testing.T) {
	srv := pistonStub(t, pistonResponse{Run: &pistonStage{Stdout: ""}})
	defer srv.Close()

	result, err := NewCodeRunnerWithURL(srv.URL).ExecutePython(context.Background(), "x = 1")
	if err != nil {
		t.Fatalf("ExecutePython: %v", err)
	}
	if !result.Success || result.Output != "Code executed successfully (no output)." {
		t.Errorf("result = %+v", result)
	}
}

func TestExecutePythonRuntimeError(t *testing.T) {
	srv := pistonStub(t, pistonResponse{Run: &pistonStage{
		Stderr: "Traceback (most recent call last):\nZeroDivisionError: division by zero",
		Code:   1,
	}})
	defer srv.Close()

	result, err := NewCodeRunnerWithURL(srv.URL).ExecutePython(context.Background(), "1/0")
	if err != nil {
		t.Fatalf("ExecutePython: %v", err)
	}
	if result.Success || result.ErrorType != "runtime" {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(result.Output, "ZeroDivisionError") {
		t.Errorf("output = %q", result.Output)
	}
}

func TestExecutePythonErrorOnStdout(t *testing.T) {
	// Piston sometimes reports interpreter errors on stdout with exit 0.
	srv := pistonStub(t, pistonResponse{Run: &pistonStage{
		Stdout: "NameError: name 'foo' is not defined",
		Code:   0,
	}})
	defer srv.Close()

	result, err := NewCodeRunnerWithURL(srv.URL).ExecutePython(context.Background(), "foo()")
	if err != nil {
		t.Fatalf("ExecutePython: %v", err)
	}
	if result.Success {
		t.Error("stdout error signature not detected")
	}
	if result.ErrorType != "runtime" {
		t.Errorf("error type = %q", result.ErrorType)
	}
}

func TestExecutePythonCompileError(t *testing.T) {
	srv := pistonStub(t, pistonResponse{Compile: &pistonStage{
		Stderr: "IndentationError: unexpected indent",
		Code:   1,
	}})
	defer srv.Close()

	result, err := NewCodeRunnerWithURL(srv.URL).ExecutePython(context.Background(), "  x = 1")
	if err != nil {
		t.Fatalf("ExecutePython: %v", err)
	}
	if result.Success || result.ErrorType != "compilation" {
		t.Errorf("result = %+v", result)
	}
	if !strings.HasPrefix(result.Output, "COMPILATION ERROR:") {
		t.Errorf("output = %q", result.Output)
	}
}

func TestExecutePythonServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewCodeRunnerWithURL(srv.URL).ExecutePython(context.Background(), "print(1)"); err == nil {
		t.Error("expected an error when the sandbox is down")
	}
}

func TestValidateSQL(t *testing.T) {
	r := NewCodeRunner()
	tests := []struct {
		name         string
		query        string
		wantValid    bool
		wantSampleOu bool
	}{
		{
			name:         "select with clauses",
			query:        "SELECT * FROM employees WHERE salary > 50000;",
			wantValid:    true,
			wantSampleOu: true,
		},
		{
			name:         "lowercase query",
			query:        "select department, avg(salary) from employees group by department",
			wantValid:    true,
			wantSampleOu: true,
		},
		{
			name:      "bare select without clauses",
			query:     "SELECT 1",
			wantValid: true,
		},
		{
			name:      "not a statement",
			query:     "employees salary department",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.ValidateSQL(tt.query)
			if result.Success != tt.wantValid {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantValid)
			}
			hasSample := strings.Contains(result.Output, "Sample data based on query structure")
			if hasSample != tt.wantSampleOu {
				t.Errorf("sample output present = %v, want %v", hasSample, tt.wantSampleOu)
			}
		})
	}
}
