package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/test.php", []byte(phpSample))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.RgxShortClass, source.Span{File: id, Start: 19, End: 24}, "short class"))
	bag.Add(diag.New(diag.SevError, diag.SecUntrustedInclusion, source.Span{File: id, Start: 6, End: 16}, "include").
		WithNote(source.Span{File: id, Start: 17, End: 26}, "argument"))
	bag.Add(diag.New(diag.SevWeak, diag.RgxShortClass, source.Span{File: id, Start: 0, End: 5}, "again"))
	bag.Add(diag.New(diag.SevWeak, diag.ObsTimings, source.Span{}, "timings"))

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolVersion: "1.2.3", InvocationArgs: []string{"check", "."}}
	require.NoError(t, Sarif(&buf, bag, fs, meta))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]

	require.Equal(t, "pcrelint", run.Tool.Driver.Name)
	require.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Equal(t, []sarifRule{
		{ID: "RGX7009", ShortDescription: sarifMessage{Text: diag.RgxShortClass.Title()}},
		{ID: "SEC8001", ShortDescription: sarifMessage{Text: diag.SecUntrustedInclusion.Title()}},
	}, run.Tool.Driver.Rules)

	_, err := uuid.Parse(run.AutomationID.GUID)
	require.NoError(t, err)
	require.False(t, run.Invocations[0].ExecutionSuccessful)
	require.Equal(t, []string{"check", "."}, run.Invocations[0].Arguments)

	require.Len(t, run.Results, 3)
	first := run.Results[0]
	require.Equal(t, "RGX7009", first.RuleID)
	require.Equal(t, 0, first.RuleIndex)
	require.Equal(t, "warning", first.Level)
	require.Equal(t, sarifPhysical{
		ArtifactLocation: sarifArtifact{URI: "src/test.php"},
		Region: sarifRegion{
			StartLine: 2, StartColumn: 14, EndLine: 2, EndColumn: 19,
			ByteOffset: 19, ByteLength: 5,
		},
	}, first.Locations[0].Physical)

	second := run.Results[1]
	require.Equal(t, 1, second.RuleIndex)
	require.Equal(t, "error", second.Level)
	require.Len(t, second.RelatedLocations, 1)
	require.Equal(t, "argument", second.RelatedLocations[0].Message.Text)

	require.Equal(t, "note", run.Results[2].Level)
}

func TestSarifEmptyRunSucceeds(t *testing.T) {
	log := BuildSarif(diag.NewBag(0), source.NewFileSet(), SarifRunMeta{})
	require.Empty(t, log.Runs[0].Results)
	require.True(t, log.Runs[0].Invocations[0].ExecutionSuccessful)
	require.NotNil(t, log.Runs[0].Results)
}
