package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
	"github.com/vinaythanay/Interview-ChatBOt/internal/service"
)

// SessionHandler handles the candidate-facing session lifecycle.
type SessionHandler struct {
	manager *service.SessionManager
	runner  *service.CodeRunner
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(manager *service.SessionManager, runner *service.CodeRunner) *SessionHandler {
	return &SessionHandler{manager: manager, runner: runner}
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		InterviewName string `json:"interviewName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "candidate name is required")
		return
	}

	sess, err := h.manager.CreateSession(r.Context(), model.CandidateProfile{
		Name:          req.Name,
		InterviewName: req.InterviewName,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Snapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SetupStep handles POST /v1/sessions/{id}/setup/{step}
func (h *SessionHandler) SetupStep(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	step := model.SetupStep(vars["step"])
	if !validSetupStep(step) {
		writeError(w, http.StatusBadRequest, "unknown setup step")
		return
	}

	if err := h.manager.Dispatch(vars["id"], model.SetupStepCompleted{Step: step, OK: req.OK}); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	h.respondSnapshot(w, r, vars["id"])
}

// SubmitAnswer handles POST /v1/sessions/{id}/answers
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.manager.Dispatch(id, model.AnswerSubmitted{Text: req.Text, Source: model.SourceText}); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	h.respondSnapshot(w, r, id)
}

// RunCode handles POST /v1/sessions/{id}/code/run. Running is advisory:
// the result goes back to the candidate but nothing is scored.
func (h *SessionHandler) RunCode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	sess, err := h.manager.Snapshot(r.Context(), id)
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	if sess.Phase != model.PhaseCoding {
		writeError(w, http.StatusConflict, "session is not in the coding phase")
		return
	}

	if sess.CodingLanguage == model.LanguageSQL {
		writeJSON(w, http.StatusOK, h.runner.ValidateSQL(req.Code))
		return
	}

	result, err := h.runner.ExecutePython(r.Context(), req.Code)
	if err != nil {
		writeError(w, http.StatusBadGateway, "code execution service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SubmitCode handles POST /v1/sessions/{id}/code/submit
func (h *SessionHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Code          string `json:"code"`
		Executed      bool   `json:"executed"`
		ExecSucceeded bool   `json:"execSucceeded"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.manager.Dispatch(id, model.CodeSubmitted{
		Code:          req.Code,
		Executed:      req.Executed,
		ExecSucceeded: req.ExecSucceeded,
	}); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	h.respondSnapshot(w, r, id)
}

// SkipCoding handles POST /v1/sessions/{id}/code/skip
func (h *SessionHandler) SkipCoding(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.manager.Dispatch(id, model.CodingSkipped{}); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	h.respondSnapshot(w, r, id)
}

// Pause handles POST /v1/sessions/{id}/pause
func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.manager.Dispatch(id, model.Paused{}); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	h.respondSnapshot(w, r, id)
}

// Resume handles POST /v1/sessions/{id}/resume
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		MediaOK bool `json:"mediaOk"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.manager.Dispatch(id, model.Resumed{MediaOK: req.MediaOK}); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	h.respondSnapshot(w, r, id)
}

// Acknowledge handles POST /v1/sessions/{id}/ack, advancing the
// REPORTING -> FEEDBACK -> TERMINATED_NORMAL tail.
func (h *SessionHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Stage != "report" && req.Stage != "feedback" {
		writeError(w, http.StatusBadRequest, "stage must be report or feedback")
		return
	}
	if err := h.manager.Dispatch(id, model.StageAcknowledged{Stage: req.Stage}); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	h.respondSnapshot(w, r, id)
}

// Completed handles GET /v1/sessions/{id}/completed, the reload gate.
func (h *SessionHandler) Completed(w http.ResponseWriter, r *http.Request) {
	done, err := h.manager.IsComplete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check completion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": done})
}

func (h *SessionHandler) respondSnapshot(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.manager.Snapshot(r.Context(), id)
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func validSetupStep(step model.SetupStep) bool {
	for _, s := range model.SetupSteps {
		if s == step {
			return true
		}
	}
	return false
}

func writeNotFoundOr500(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
