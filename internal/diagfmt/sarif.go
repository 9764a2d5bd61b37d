package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/google/uuid"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	AutomationID *sarifAutomation `json:"automationDetails,omitempty"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID           string                 `json:"ruleId"`
	RuleIndex        int                    `json:"ruleIndex"`
	Level            string                 `json:"level"`
	Message          sarifMessage           `json:"message"`
	Locations        []sarifLocation        `json:"locations,omitempty"`
	RelatedLocations []sarifRelatedLocation `json:"relatedLocations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	Physical sarifPhysical `json:"physicalLocation"`
}

type sarifRelatedLocation struct {
	ID       int           `json:"id"`
	Physical sarifPhysical `json:"physicalLocation"`
	Message  sarifMessage  `json:"message"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

// sarifLevel maps severities onto SARIF result levels.
func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

func sarifPhysicalFor(fs *source.FileSet, span source.Span) (sarifPhysical, bool) {
	f := lookup(fs, span)
	if f == nil {
		return sarifPhysical{}, false
	}
	start, end := fs.Resolve(span)
	return sarifPhysical{
		ArtifactLocation: sarifArtifact{URI: formatPath(f, fs, PathModeRelative)},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
			ByteOffset:  span.Start,
			ByteLength:  span.Len(),
		},
	}, true
}

// BuildSarif builds a SARIF 2.1.0 log with a single run. Only codes that
// occur in bag are listed as rules.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) sarifLog {
	var items []diag.Diagnostic
	if bag != nil {
		items = bag.Items()
	}

	var codes []diag.Code
	seen := make(map[diag.Code]bool)
	for _, d := range items {
		if anchored(d) && !seen[d.Code] {
			seen[d.Code] = true
			codes = append(codes, d.Code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules[i] = sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}}
	}

	results := make([]sarifResult, 0, len(items))
	successful := true
	for _, d := range items {
		if !anchored(d) {
			continue
		}
		if d.Severity == diag.SevError {
			successful = false
		}
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: ruleIndex[d.Code],
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
		}
		if phys, ok := sarifPhysicalFor(fs, d.Primary); ok {
			res.Locations = []sarifLocation{{Physical: phys}}
		}
		for i, n := range d.Notes {
			if phys, ok := sarifPhysicalFor(fs, n.Span); ok {
				res.RelatedLocations = append(res.RelatedLocations, sarifRelatedLocation{
					ID: i + 1, Physical: phys, Message: sarifMessage{Text: n.Msg},
				})
			}
		}
		results = append(results, res)
	}

	name := meta.ToolName
	if name == "" {
		name = "pcrelint"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		AutomationID: &sarifAutomation{GUID: uuid.NewString()},
		Invocations: []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: successful,
		}},
		Results: results,
	}
	return sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}}
}

// Sarif writes diagnostics in SARIF format (v2.1.0).
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildSarif(bag, fs, meta))
}
