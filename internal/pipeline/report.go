package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ReportSignal struct {
	Code     string `json:"code"`
	Stage    string `json:"stage"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Subject  string `json:"subject,omitempty"`
}

type StageMetric struct {
	Name       string         `json:"name"`
	Status     string         `json:"status"`
	StartedAt  string         `json:"started_at"`
	FinishedAt string         `json:"finished_at"`
	DurationMS int64          `json:"duration_ms"`
	Counters   map[string]int `json:"counters,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// ArtifactStatus is the outcome of one renderer.
type ArtifactStatus struct {
	Renderer string   `json:"renderer"`
	Path     string   `json:"path"`
	Status   string   `json:"status"`
	Errors   []string `json:"errors,omitempty"`
}

type ReportSummary struct {
	Records           int            `json:"records"`
	Nodes             int            `json:"nodes"`
	Placeholders      int            `json:"placeholders"`
	Skipped           int            `json:"skipped"`
	FailedArtifacts   int            `json:"failed_artifacts"`
	SignalsBySeverity map[string]int `json:"signals_by_severity"`
}

type Report struct {
	Version     string           `json:"version"`
	RunID       string           `json:"run_id"`
	Source      string           `json:"source"`
	GeneratedAt string           `json:"generated_at"`
	Stages      []StageMetric    `json:"stages"`
	Artifacts   []ArtifactStatus `json:"artifacts"`
	Signals     []ReportSignal   `json:"signals,omitempty"`
	Summary     ReportSummary    `json:"summary"`

	mu sync.Mutex
}

type StageHandle struct {
	name    string
	started time.Time
}

func NewReport(source string) *Report {
	return &Report{
		Version:     "v1",
		RunID:       uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stages:      []StageMetric{},
		Artifacts:   []ArtifactStatus{},
		Signals:     []ReportSignal{},
	}
}

func (r *Report) BeginStage(name string) StageHandle {
	return StageHandle{name: strings.TrimSpace(name), started: time.Now().UTC()}
}

func (r *Report) EndStage(h StageHandle, counters map[string]int, err error) {
	if r == nil || h.name == "" {
		return
	}
	finished := time.Now().UTC()
	m := StageMetric{
		Name:       h.name,
		Status:     "ok",
		StartedAt:  h.started.Format(time.RFC3339Nano),
		FinishedAt: finished.Format(time.RFC3339Nano),
		DurationMS: finished.Sub(h.started).Milliseconds(),
		Counters:   counters,
	}
	if err != nil {
		m.Status = "error"
		m.Error = err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stages = append(r.Stages, m)
}

func (r *Report) AddSignal(code, stage, severity, message, subject string) {
	if r == nil {
		return
	}
	s := ReportSignal{
		Code:     strings.TrimSpace(code),
		Stage:    strings.TrimSpace(stage),
		Severity: strings.ToLower(strings.TrimSpace(severity)),
		Message:  strings.TrimSpace(message),
		Subject:  subject,
	}
	if s.Code == "" || s.Stage == "" || s.Severity == "" || s.Message == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Signals = append(r.Signals, s)
}

// SetArtifact records the outcome of a renderer. Safe for concurrent use.
func (r *Report) SetArtifact(renderer, path string, errs []error) {
	if r == nil {
		return
	}
	a := ArtifactStatus{Renderer: renderer, Path: path, Status: "ok"}
	for _, err := range errs {
		if err != nil {
			a.Errors = append(a.Errors, err.Error())
		}
	}
	if len(a.Errors) > 0 {
		a.Status = "error"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Artifacts = append(r.Artifacts, a)
}

func (r *Report) Finalize() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	sort.SliceStable(r.Signals, func(i, j int) bool {
		pi := signalPriority(r.Signals[i].Severity)
		pj := signalPriority(r.Signals[j].Severity)
		if pi == pj {
			if r.Signals[i].Code == r.Signals[j].Code {
				return r.Signals[i].Subject < r.Signals[j].Subject
			}
			return r.Signals[i].Code < r.Signals[j].Code
		}
		return pi > pj
	})
	sort.Slice(r.Artifacts, func(i, j int) bool {
		return r.Artifacts[i].Renderer < r.Artifacts[j].Renderer
	})

	severityCount := map[string]int{
		"critical": 0,
		"warning":  0,
		"info":     0,
	}
	for _, s := range r.Signals {
		severityCount[s.Severity]++
	}
	r.Summary.SignalsBySeverity = severityCount

	failed := 0
	for _, a := range r.Artifacts {
		if a.Status != "ok" {
			failed++
		}
	}
	r.Summary.FailedArtifacts = failed
}

func (r *Report) Save(path string) error {
	if r == nil {
		return nil
	}
	r.Finalize()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func signalPriority(severity string) int {
	switch severity {
	case "critical":
		return 3
	case "warning":
		return 2
	default:
		return 1
	}
}
