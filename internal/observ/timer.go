package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of a pipeline stage.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks pipeline stages and per-unit lowering times.
// Unit records may arrive from parallel workers.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	units  []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// RecordUnit stores the lowering time of one compilation unit.
func (t *Timer) RecordUnit(path string, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.units = append(t.units, Phase{Name: path, Dur: dur})
}

// Summary returns a human-readable table of stages followed by the slowest units.
func (t *Timer) Summary(slowest int) string {
	report := t.Report()
	var out strings.Builder
	out.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&out, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out.WriteString("  // " + p.Note)
		}
		out.WriteString("\n")
	}
	fmt.Fprintf(&out, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	if slowest > 0 && len(report.Units) > 0 {
		out.WriteString("slowest units:\n")
		for i, u := range report.Units {
			if i == slowest {
				break
			}
			fmt.Fprintf(&out, "  %-40s %7.2f ms\n", u.Name, u.DurationMS)
		}
	}
	return out.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Units   []PhaseReport `json:"units,omitempty"` // slowest first
}

// Report returns stages in start order and units sorted by duration.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var report Report
	var total time.Duration
	for _, phase := range t.phases {
		total += phase.Dur
		report.Phases = append(report.Phases, toReport(phase))
	}
	report.TotalMS = durationToMillis(total)

	units := append([]Phase(nil), t.units...)
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].Dur != units[j].Dur {
			return units[i].Dur > units[j].Dur
		}
		return units[i].Name < units[j].Name
	})
	for _, u := range units {
		report.Units = append(report.Units, toReport(u))
	}
	return report
}

func toReport(p Phase) PhaseReport {
	return PhaseReport{Name: p.Name, DurationMS: durationToMillis(p.Dur), Note: p.Note}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
