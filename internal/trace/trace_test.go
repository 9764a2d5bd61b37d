package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "parse", 0)
	Begin(tr, ScopeFile, "file:a.php", span.ID()).End("")
	span.End("3 files")

	out := buf.String()
	if !strings.Contains(out, "→ parse") || !strings.Contains(out, "← parse (3 files)") {
		t.Fatalf("missing pass events:\n%s", out)
	}
	if strings.Contains(out, "a.php") {
		t.Fatalf("file scope must be filtered at phase level:\n%s", out)
	}
}

func TestErrorPointsPassErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)

	Begin(tr, ScopeDriver, "run", 0).End("")
	Error(tr, "ast.equal", "panic: boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the error event, got %d lines:\n%s", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("invalid ndjson: %v", err)
	}
	if ev["kind"] != "error" || ev["detail"] != "panic: boom" {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeNode, name, "")
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatal("tracer not propagated")
	}
	span := Begin(r, ScopePass, "analyze", 0)
	if got := ParentSpan(WithSpan(ctx, span)); got != span.ID() {
		t.Fatalf("ParentSpan = %d, want %d", got, span.ID())
	}
}

func TestNewWithLevelOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStartNestsUnderContextSpan(t *testing.T) {
	r := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), r)

	ctx, run := Start(ctx, ScopeDriver, "check")
	fileCtx, file := Start(ctx, ScopeFile, "file:a.php")
	Node(fileCtx, "call", "preg_match")
	file.End("done")
	run.End("")

	snap := r.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("expected 5 events, got %+v", snap)
	}
	if snap[1].ParentID != run.ID() {
		t.Fatalf("file span parent = %d, want %d", snap[1].ParentID, run.ID())
	}
	if snap[2].Kind != KindPoint || snap[2].Scope != ScopeNode || snap[2].ParentID != file.ID() {
		t.Fatalf("unexpected node point: %+v", snap[2])
	}
}

func TestStartWithoutTracerIsDisabled(t *testing.T) {
	ctx := context.Background()
	got, span := Start(ctx, ScopePass, "load")
	if got != ctx || span.ID() != 0 {
		t.Fatalf("Start without tracer = %v, %d", got, span.ID())
	}
	if span.WithExtra("k", "v").End("") != 0 {
		t.Fatal("disabled span must report zero duration")
	}
}

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		l, err := ParseLevel(name)
		if err != nil || l.String() != name {
			t.Errorf("ParseLevel(%q) = %v, %v", name, l, err)
		}
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(both) = %v, %v", m, err)
	}
}

func TestHeartbeatNamesOpenFiles(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	if got := heartbeatDetail(1); got != "#1 idle" {
		t.Fatalf("idle heartbeat = %q", got)
	}
	var spans []*Span
	for _, name := range []string{"file:a.php", "file:b.php", "file:c.php", "file:d.php"} {
		spans = append(spans, Begin(r, ScopeFile, name, 0))
	}
	if got, want := heartbeatDetail(2), "#2 in flight: file:a.php, file:b.php, file:c.php (+1)"; got != want {
		t.Fatalf("heartbeat = %q, want %q", got, want)
	}
	for _, s := range spans {
		s.End("")
	}
	if got := heartbeatDetail(3); got != "#3 idle" {
		t.Fatalf("heartbeat after close = %q", got)
	}
}

func TestMultiTracerFanOut(t *testing.T) {
	a := NewRingTracer(4, LevelPhase)
	b := NewRingTracer(4, LevelPhase)
	m := NewMultiTracer(LevelPhase, a, b)
	Begin(m, ScopePass, "index", 0).End("")
	if len(a.Snapshot()) != 2 || len(b.Snapshot()) != 2 {
		t.Fatalf("fan-out: %d, %d events", len(a.Snapshot()), len(b.Snapshot()))
	}
	if ring, ok := m.Ring(); !ok || ring != a {
		t.Fatal("Ring() should return the first ring child")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
