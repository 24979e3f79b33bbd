package driver

import (
	"encoding/json"
	"fmt"

	"kdart/internal/diag"
	"kdart/internal/observ"
	"kdart/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
	Units   []observ.PhaseReport `json:"units,omitempty"`
}

// AppendTimingDiagnostic adds the timer report to bag as an info diagnostic
// whose note carries the JSON payload. It is added even when bag is full.
func AppendTimingDiagnostic(bag *diag.Bag, path string, report observ.Report, slowest int) {
	if bag == nil {
		return
	}
	payload := timingPayload{
		Kind:    "build",
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
		Units:   report.Units,
	}
	if slowest >= 0 && len(payload.Units) > slowest {
		payload.Units = payload.Units[:slowest]
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.NoSpan, msg).
		WithNote(source.NoSpan, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(len(bag.Items()) + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
