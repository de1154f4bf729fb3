package graph

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestUnmarshalTolerant(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes []ID
		wantEdges []EdgeData
		wantErr   bool
	}{
		{
			name:      "canonical form",
			input:     `{"nodes":["a","b"],"edges":[{"source":"a","target":"b","weight":2}]}`,
			wantNodes: []ID{"a", "b"},
			wantEdges: []EdgeData{{Source: "a", Target: "b", Weight: 2}},
		},
		{
			name:      "missing weight defaults to one",
			input:     `{"nodes":["a","b"],"edges":[{"source":"a","target":"b"}]}`,
			wantNodes: []ID{"a", "b"},
			wantEdges: []EdgeData{{Source: "a", Target: "b", Weight: 1}},
		},
		{
			name:      "from to endpoint aliases",
			input:     `{"nodes":["a","b"],"edges":[{"from":"a","to":"b"}]}`,
			wantNodes: []ID{"a", "b"},
			wantEdges: []EdgeData{{Source: "a", Target: "b", Weight: 1}},
		},
		{
			name:      "numeric node ids keep literal text",
			input:     `{"nodes":[1,2,"c"],"edges":[{"source":1,"target":2}]}`,
			wantNodes: []ID{"1", "2", "c"},
			wantEdges: []EdgeData{{Source: "1", Target: "2", Weight: 1}},
		},
		{
			name:      "node objects with id field",
			input:     `{"nodes":[{"id":"a","label":"ignored"},{"id":7}],"edges":[]}`,
			wantNodes: []ID{"a", "7"},
		},
		{
			name:  "empty document",
			input: `{}`,
		},
		{
			name:  "null collections",
			input: `{"nodes":null,"edges":null}`,
		},
		{
			name:      "malformed collections decode as empty",
			input:     `{"nodes":"what","edges":42}`,
			wantNodes: nil,
			wantEdges: nil,
		},
		{
			name:      "undecodable entries dropped",
			input:     `{"nodes":["a",true,null,"b"],"edges":[{"source":"a"},{"source":"a","target":"b"},"junk"]}`,
			wantNodes: []ID{"a", "b"},
			wantEdges: []EdgeData{{Source: "a", Target: "b", Weight: 1}},
		},
		{
			name:      "malformed weight defaults to one",
			input:     `{"nodes":[],"edges":[{"source":"a","target":"b","weight":"heavy"}]}`,
			wantEdges: []EdgeData{{Source: "a", Target: "b", Weight: 1}},
		},
		{
			name:      "extra fields ignored",
			input:     `{"nodes":["a"],"edges":[],"directed":false,"metadata":{"k":1}}`,
			wantNodes: []ID{"a"},
		},
		{
			name:    "not an object",
			input:   `[1,2,3]`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			input:   `{nodes}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !slices.Equal(got.Nodes, tt.wantNodes) {
				t.Errorf("Nodes = %v, want %v", got.Nodes, tt.wantNodes)
			}
			if !slices.Equal(got.Edges, tt.wantEdges) {
				t.Errorf("Edges = %v, want %v", got.Edges, tt.wantEdges)
			}
		})
	}
}

func TestFromData(t *testing.T) {
	d := Data{
		Nodes: []ID{"a", "b", "", "c"},
		Edges: []EdgeData{
			{Source: "a", Target: "b", Weight: 2},
			{Source: "c", Target: "d", Weight: 1}, // d auto-created
			{Source: "", Target: "a", Weight: 1},  // skipped
		},
	}
	g := FromData(d)

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if w, ok := g.Weight("a", "b"); !ok || w != 2 {
		t.Errorf("Weight(a,b) = %v,%v, want 2,true", w, ok)
	}
	if !g.HasNode("d") {
		t.Error("edge endpoint d was not auto-created")
	}
}

func TestRoundTrip(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", 2)
	g.AddEdge("b", "c", 1)
	g.AddNode("lonely")

	encoded, err := Marshal(g.Data())
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	decoded, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	rebuilt := FromData(decoded)

	if !slices.Equal(rebuilt.Nodes(), g.Nodes()) {
		t.Errorf("nodes after round trip = %v, want %v", rebuilt.Nodes(), g.Nodes())
	}
	if rebuilt.EdgeCount() != g.EdgeCount() {
		t.Errorf("edge count after round trip = %d, want %d", rebuilt.EdgeCount(), g.EdgeCount())
	}
	if w, _ := rebuilt.Weight("a", "b"); w != 2 {
		t.Errorf("Weight(a,b) after round trip = %v, want 2", w)
	}
}

func TestCloneIsolation(t *testing.T) {
	orig := Data{
		Nodes: []ID{"a", "b"},
		Edges: []EdgeData{{Source: "a", Target: "b", Weight: 1}},
	}
	clone := orig.Clone()

	clone.Nodes[0] = "changed"
	clone.Edges[0].Weight = 99

	if orig.Nodes[0] != "a" {
		t.Error("mutating clone nodes affected the original")
	}
	if orig.Edges[0].Weight != 1 {
		t.Error("mutating clone edges affected the original")
	}
}

func TestHash(t *testing.T) {
	a := Data{
		Nodes: []ID{"a", "b", "c"},
		Edges: []EdgeData{{Source: "a", Target: "b", Weight: 1}, {Source: "b", Target: "c", Weight: 2}},
	}
	// Same graph, different entry order and edge orientation.
	b := Data{
		Nodes: []ID{"c", "a", "b"},
		Edges: []EdgeData{{Source: "c", Target: "b", Weight: 2}, {Source: "b", Target: "a", Weight: 1}},
	}
	// Different weight.
	c := Data{
		Nodes: []ID{"a", "b", "c"},
		Edges: []EdgeData{{Source: "a", Target: "b", Weight: 3}, {Source: "b", Target: "c", Weight: 2}},
	}

	if a.Hash() != b.Hash() {
		t.Error("equivalent graphs produced different hashes")
	}
	if a.Hash() == c.Hash() {
		t.Error("different graphs produced the same hash")
	}
	if a.Hash() == "" {
		t.Error("Hash() returned empty string")
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")

	d := Data{
		Nodes: []ID{"a", "b"},
		Edges: []EdgeData{{Source: "a", Target: "b", Weight: 2}},
	}
	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if !slices.Equal(got.Nodes, d.Nodes) || !slices.Equal(got.Edges, d.Edges) {
		t.Errorf("ReadFile = %+v, want %+v", got, d)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadFile on missing file succeeded, want error")
	}
}
