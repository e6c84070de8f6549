package sdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatlink-ai/sdk/alert"
	"github.com/threatlink-ai/sdk/cache"
	"github.com/threatlink-ai/sdk/filter"
	"github.com/threatlink-ai/sdk/retrieval"
	"github.com/threatlink-ai/sdk/taxonomy"
)

func testStore(t *testing.T) *taxonomy.Store {
	t.Helper()
	store, err := taxonomy.NewStore(&taxonomy.Document{
		Techniques: []taxonomy.TechniqueEntry{
			{ID: "T1059.001", Name: "PowerShell"},
			{ID: "T1110", Name: "Brute Force"},
		},
		Actions: []taxonomy.ActionEntry{
			{ID: "action.malware", Name: "Malware", Techniques: []string{"T1059.001"}},
			{ID: "action.hacking", Name: "Hacking", Techniques: []string{"T1110"}},
		},
		Incidents: []taxonomy.IncidentEntry{
			{ID: "incident.intrusion", Name: "System Intrusion", Actions: []string{"action.malware", "action.hacking"}},
		},
	})
	require.NoError(t, err)
	return store
}

func testIndex(t *testing.T) *retrieval.Index {
	t.Helper()
	index, err := retrieval.BuildIndex([]retrieval.Passage{
		{ID: "kb-powershell", Title: "PowerShell abuse", Content: "Adversaries abuse PowerShell malware to execute encoded commands."},
		{ID: "kb-bruteforce", Title: "Brute force response", Content: "Repeated authentication failures suggest brute force hacking."},
	})
	require.NoError(t, err)
	return index
}

func powershellRecord() map[string]any {
	return map[string]any{
		"rule": map[string]any{
			"id":          "92052",
			"level":       10,
			"description": "Suspicious PowerShell activity",
			"mitre":       map[string]any{"id": []any{"T1059.001"}},
		},
	}
}

func TestNewEngineValidation(t *testing.T) {
	store := testStore(t)
	index := testIndex(t)

	_, err := NewEngine(nil, index)
	assert.ErrorIs(t, err, ErrNilTaxonomy)

	_, err = NewEngine(store, nil)
	assert.ErrorIs(t, err, ErrNilIndex)

	var engErr *EngineError
	_, err = NewEngine(nil, index)
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, KindConfiguration, engErr.Kind)

	engine, err := NewEngine(store, index)
	require.NoError(t, err)
	assert.Same(t, store, engine.Taxonomy())
	assert.Same(t, index, engine.Index())
}

func TestEngineAnalyze(t *testing.T) {
	engine, err := NewEngine(testStore(t), testIndex(t))
	require.NoError(t, err)

	analysis, err := engine.Analyze(context.Background(), powershellRecord(), "encoded commands")
	require.NoError(t, err)

	require.NotNil(t, analysis.Incident)
	assert.Equal(t, []alert.TechniqueID{"T1059.001"}, analysis.Incident.Techniques)
	require.NotNil(t, analysis.Incident.Node)
	assert.Equal(t, "incident.intrusion", analysis.Incident.Node.ID)

	assert.NotEmpty(t, analysis.Terms)
	require.NotEmpty(t, analysis.Passages)
	assert.Equal(t, "kb-powershell", analysis.Passages[0].Passage.ID)
}

func TestEngineCorrelateEmptyAlert(t *testing.T) {
	engine, err := NewEngine(testStore(t), testIndex(t))
	require.NoError(t, err)

	inc, err := engine.Correlate(context.Background(), map[string]any{"message": "nothing mapped"})
	require.NoError(t, err)
	assert.True(t, inc.IsEmpty())

	// An empty incident with no notes retrieves nothing.
	results, err := engine.Retrieve(context.Background(), inc, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineFilter(t *testing.T) {
	admit, err := filter.Compile(`has(alert.rule) && int(alert.rule.level) >= 7`)
	require.NoError(t, err)

	engine, err := NewEngine(testStore(t), testIndex(t), WithFilter(admit))
	require.NoError(t, err)

	// Above threshold: correlates normally.
	inc, err := engine.Correlate(context.Background(), powershellRecord())
	require.NoError(t, err)
	assert.False(t, inc.IsEmpty())

	// Below threshold: rejected with the sentinel.
	low := map[string]any{"rule": map[string]any{"id": "1", "level": 2}}
	_, err = engine.Correlate(context.Background(), low)
	assert.ErrorIs(t, err, ErrAlertFiltered)

	// Evaluation error: fails closed.
	_, err = engine.Correlate(context.Background(), map[string]any{"rule": map[string]any{"level": "high"}})
	assert.ErrorIs(t, err, ErrAlertFiltered)
}

func TestEngineCache(t *testing.T) {
	mr := miniredis.RunT(t)
	corrCache, err := cache.New(cache.Options{URL: fmt.Sprintf("redis://%s", mr.Addr())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = corrCache.Close() })

	engine, err := NewEngine(testStore(t), testIndex(t), WithCache(corrCache))
	require.NoError(t, err)

	record := powershellRecord()

	first, err := engine.Correlate(context.Background(), record)
	require.NoError(t, err)

	// The repeat is answered from the cache: same correlation ID, same
	// creation time.
	second, err := engine.Correlate(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	// A cache outage degrades to fresh correlation, not an error.
	mr.Close()
	third, err := engine.Correlate(context.Background(), record)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestEngineSwapTaxonomy(t *testing.T) {
	engine, err := NewEngine(testStore(t), testIndex(t))
	require.NoError(t, err)

	replacement, err := taxonomy.NewStore(&taxonomy.Document{
		Techniques: []taxonomy.TechniqueEntry{{ID: "T1110", Name: "Brute Force"}},
		Actions:    []taxonomy.ActionEntry{{ID: "action.hacking", Name: "Hacking", Techniques: []string{"T1110"}}},
		Incidents:  []taxonomy.IncidentEntry{{ID: "incident.web-attack", Name: "Basic Web Application Attack", Actions: []string{"action.hacking"}}},
	})
	require.NoError(t, err)

	engine.SwapTaxonomy(replacement)
	assert.Same(t, replacement, engine.Taxonomy())

	// The old graph's PowerShell mapping is gone; the new graph's brute
	// force mapping answers.
	inc, err := engine.Correlate(context.Background(), powershellRecord())
	require.NoError(t, err)
	assert.Empty(t, inc.Actions)

	inc, err = engine.Correlate(context.Background(), map[string]any{"message": "T1110 storm"})
	require.NoError(t, err)
	require.NotNil(t, inc.Node)
	assert.Equal(t, "incident.web-attack", inc.Node.ID)
}

func TestEngineSwapIndex(t *testing.T) {
	engine, err := NewEngine(testStore(t), testIndex(t))
	require.NoError(t, err)

	replacement, err := retrieval.BuildIndex([]retrieval.Passage{
		{ID: "kb-only", Title: "Containment", Content: "Containment playbook for intrusion response."},
	})
	require.NoError(t, err)

	engine.SwapIndex(replacement)
	assert.Same(t, replacement, engine.Index())

	inc, err := engine.Correlate(context.Background(), powershellRecord())
	require.NoError(t, err)
	results, err := engine.Retrieve(context.Background(), inc, "containment playbook")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "kb-only", results[0].Passage.ID)
}

func TestEngineConcurrentUseDuringSwap(t *testing.T) {
	engine, err := NewEngine(testStore(t), testIndex(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				analysis, err := engine.Analyze(context.Background(), powershellRecord(), "encoded")
				if err != nil {
					t.Errorf("analyze: %v", err)
					return
				}
				// Actions and incident always come from one consistent
				// store generation.
				if analysis.Incident.Node != nil && len(analysis.Incident.Actions) == 0 {
					t.Error("incident without actions")
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		engine.SwapTaxonomy(testStore(t))
		engine.SwapIndex(testIndex(t))
		time.Sleep(time.Millisecond)
	}
	close(stop)
	wg.Wait()
}

func TestEngineTopKOption(t *testing.T) {
	engine, err := NewEngine(testStore(t), testIndex(t), WithTopK(1), WithMinScore(0))
	require.NoError(t, err)

	inc, err := engine.Correlate(context.Background(), powershellRecord())
	require.NoError(t, err)
	results, err := engine.Retrieve(context.Background(), inc, "powershell brute force")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestEngineErrorsUnwrap(t *testing.T) {
	wrapped := NewExecutionError("Engine.Correlate", ErrAlertFiltered)
	assert.ErrorIs(t, wrapped, ErrAlertFiltered)

	var engErr *EngineError
	require.ErrorAs(t, error(wrapped), &engErr)
	assert.Equal(t, "Engine.Correlate", engErr.Op)
	assert.Equal(t, KindExecution, engErr.Kind)

	assert.True(t, errors.Is(wrapped, &EngineError{Kind: KindExecution}))
	assert.False(t, errors.Is(wrapped, &EngineError{Kind: KindValidation}))
}
