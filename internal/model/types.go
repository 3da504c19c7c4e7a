// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Document  string
	Retries   int
	NoHistory bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Document    string
	Since       *time.Time
	Last        int
	CurveWindow int
	Top         int
}

// SessionStats captures a finished practice session.
type SessionStats struct {
	UUID       string
	StartedAt  time.Time
	EndedAt    time.Time
	Document   string
	Title      string
	Drills     int
	Correct    int
	Incorrect  int
	DurationMs int64
}

// WordStats stores per-word guess results for a session.
type WordStats struct {
	Word      string
	Correct   int
	Incorrect int
}

// WordAggregate aggregates word stats across sessions.
type WordAggregate struct {
	Word      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	UUID       string
	EndedAt    time.Time
	Document   string
	Correct    int
	Incorrect  int
	DurationMs int64
}
