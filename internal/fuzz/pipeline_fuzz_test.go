package fuzztests

import (
	"context"
	"testing"
	"time"

	"pcrelint/internal/diag"
	"pcrelint/internal/inspect"
	"pcrelint/internal/parser"
	"pcrelint/internal/sema"
	"pcrelint/internal/source"
	"pcrelint/internal/symbols"
	"pcrelint/internal/testkit"
)

// pipelineTimeout bounds one input; exceeding it points at a recovery loop.
const pipelineTimeout = 5 * time.Second

// FuzzPipeline parses, indexes and inspects arbitrary input. It must neither
// panic nor hang, and the tree must keep its span invariants.
func FuzzPipeline(f *testing.F) {
	addPHPSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()

		errc := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.php", input))
			bag := diag.NewBag(128)
			reporter := diag.BagReporter{Bag: bag}

			tree := parser.ParseFile(file, parser.Options{Reporter: reporter, MaxErrors: 128})
			if err := testkit.CheckSpanInvariants(tree, file); err != nil {
				errc <- err
				return
			}
			table := symbols.NewTable()
			table.AddFile(tree)
			res := sema.NewResolver(table, file, tree)
			errc <- inspect.Walk(ctx, tree,
				inspect.NewRegexInspector(res, reporter),
				inspect.NewInclusionInspector(res, reporter),
				inspect.NewOffsetInspector(res, reporter),
			)
		}()

		select {
		case err := <-errc:
			if err != nil && ctx.Err() == nil {
				t.Fatalf("pipeline failed: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("pipeline hang: longer than %v\ninput (%d bytes): %q",
				pipelineTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
