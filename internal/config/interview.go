package config

import (
	"strconv"
	"time"
)

// InterviewConfig holds the session policy thresholds.
type InterviewConfig struct {
	MaxQuestions       int
	MaxCodingQuestions int
	MaxDuration        time.Duration
	EndCheckInterval   time.Duration

	// Proctoring policy
	MaxGazeWarnings     int
	GazeSampleInterval  time.Duration
	GazeDebounce        time.Duration
	WarningRateLimit    time.Duration
	GazeCenterTolerance float64
	MinFaceArea         float64
	DevToolsPollEvery   time.Duration
	DevToolsDeltaPx     int

	// Question engine
	ErrorDebounce time.Duration
}

// DefaultInterviewConfig returns the standard interview policy.
func DefaultInterviewConfig() *InterviewConfig {
	return &InterviewConfig{
		MaxQuestions:       getEnvInt("MAX_QUESTIONS", 8),
		MaxCodingQuestions: getEnvInt("MAX_CODING_QUESTIONS", 3),
		MaxDuration:        time.Duration(getEnvInt("MAX_DURATION_MINUTES", 30)) * time.Minute,
		EndCheckInterval:   30 * time.Second,

		MaxGazeWarnings:     5,
		GazeSampleInterval:  2 * time.Second,
		GazeDebounce:        4 * time.Second,
		WarningRateLimit:    5 * time.Second,
		GazeCenterTolerance: 0.15,
		MinFaceArea:         0.05,
		DevToolsPollEvery:   500 * time.Millisecond,
		DevToolsDeltaPx:     160,

		ErrorDebounce: 10 * time.Second,
	}
}

func getEnvInt(key string, defaultValue int) int {
	if v := getEnvOrDefault(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
