package driver

import (
	"encoding/json"
	"fmt"

	"pcrelint/internal/diag"
	"pcrelint/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
	Slowest []observ.FileReport  `json:"slowest,omitempty"`
}

// appendTimingDiagnostic records payload as an OBS diagnostic whose note
// carries the JSON form, so every output format can show it.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.Diagnostic{
		Severity: diag.SevWeak,
		Code:     diag.ObsTimings,
		Message:  msg,
		Notes:    []diag.Note{{Msg: string(data)}},
	}

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	bag.Merge(overflow)
}
