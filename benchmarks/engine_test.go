// Package benchmarks measures framework overhead: graph construction,
// execution, and checkpoint persistence, independent of model latency.
package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/mathflow/pkg/mathflow"
	"github.com/randalmurphal/mathflow/pkg/mathflow/checkpoint"
)

type benchState struct {
	Step     int               `json:"step"`
	Values   []int             `json:"values"`
	Metadata map[string]string `json:"metadata"`
}

func noopNode(ctx mathflow.Context, s benchState) (benchState, error) {
	return s, nil
}

func nodeID(i int) string {
	return fmt.Sprintf("node%d", i)
}

func buildLinearGraph(n int) *mathflow.Graph[benchState] {
	g := mathflow.NewGraph[benchState]()
	for i := 0; i < n; i++ {
		g.AddNode(nodeID(i), noopNode)
	}
	for i := 0; i < n-1; i++ {
		g.AddEdge(nodeID(i), nodeID(i+1))
	}
	g.AddEdge(nodeID(n-1), mathflow.END)
	g.SetEntry(nodeID(0))
	return g
}

func mustCompile(g *mathflow.Graph[benchState]) *mathflow.CompiledGraph[benchState] {
	compiled, err := g.Compile()
	if err != nil {
		panic(err)
	}
	return compiled
}

func largeState() benchState {
	s := benchState{
		Values:   make([]int, 100),
		Metadata: make(map[string]string, 20),
	}
	for i := range s.Values {
		s.Values[i] = i
	}
	for i := 0; i < 20; i++ {
		s.Metadata[nodeID(i)] = "metadata value for benchmarking"
	}
	return s
}

func BenchmarkNewGraph(b *testing.B) {
	for i := 0; i < b.N; i++ {
		mathflow.NewGraph[benchState]()
	}
}

func BenchmarkBuildGraph_10(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buildLinearGraph(10)
	}
}

func BenchmarkCompile_Linear_10(b *testing.B) {
	g := buildLinearGraph(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = g.Compile()
	}
}

func BenchmarkCompile_Linear_50(b *testing.B) {
	g := buildLinearGraph(50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = g.Compile()
	}
}

func BenchmarkRun_Linear_10(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(10))
	ctx := mathflow.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, benchState{})
	}
}

func BenchmarkRun_ConditionalLoop(b *testing.B) {
	g := mathflow.NewGraph[benchState]().
		AddNode("work", func(ctx mathflow.Context, s benchState) (benchState, error) {
			s.Step++
			return s, nil
		}).
		AddConditionalEdge("work", func(ctx mathflow.Context, s benchState) string {
			if s.Step >= 10 {
				return mathflow.END
			}
			return "work"
		}).
		SetEntry("work")
	compiled := mustCompile(g)
	ctx := mathflow.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, benchState{})
	}
}

func BenchmarkRun_WithCheckpointing_Memory(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(10))
	ctx := mathflow.NewContext(context.Background())
	store := checkpoint.NewMemoryStore()
	defer store.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, largeState(),
			mathflow.WithCheckpointing(store),
			mathflow.WithRunID(fmt.Sprintf("bench-%d", i)),
		)
	}
}

func BenchmarkMemoryStore_Save(b *testing.B) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()
	data, _ := json.Marshal(largeState())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save("run", nodeID(i%10), data)
	}
}

func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, err := checkpoint.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	data, _ := json.Marshal(largeState())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save("run", nodeID(i%10), data)
	}
}
