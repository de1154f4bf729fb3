package graph

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// =============================================================================
// Wire Format Types
// =============================================================================

// Data is the canonical wire format for graphs. It is the only form in
// which graphs cross process, worker, and API boundaries: plain values,
// no live references, safe to copy with [Data.Clone].
//
// Decoding is tolerant by contract. Node entries may be JSON strings,
// numbers, or objects carrying an "id" field; numeric ids keep their
// literal text. Edge endpoints may be named source/target or from/to.
// A missing weight defaults to 1. Collections that are absent, null, or
// not arrays decode as empty, and entries that cannot be interpreted
// are dropped rather than failing the whole document.
type Data struct {
	Nodes []ID       `json:"nodes"`
	Edges []EdgeData `json:"edges"`
}

// EdgeData is one edge entry on the wire.
type EdgeData struct {
	Source ID      `json:"source"`
	Target ID      `json:"target"`
	Weight float64 `json:"weight"`
}

// Point is a two-dimensional coordinate. Layout results and spectral
// statistics carry one per node.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalJSON implements tolerant decoding. Only a document that is
// not a JSON object at all produces an error.
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode graph data: %w", err)
	}
	d.Nodes = decodeNodeList(raw.Nodes)
	d.Edges = decodeEdgeList(raw.Edges)
	return nil
}

// UnmarshalJSON accepts both JSON strings and JSON numbers; numbers
// keep their literal text as the identifier.
func (id *ID) UnmarshalJSON(b []byte) error {
	decoded, ok := decodeWireID(b)
	if !ok {
		return fmt.Errorf("node id must be a string or number, got %s", b)
	}
	*id = decoded
	return nil
}

// Clone returns a deep copy sharing no memory with the receiver.
func (d Data) Clone() Data {
	return Data{
		Nodes: slices.Clone(d.Nodes),
		Edges: slices.Clone(d.Edges),
	}
}

// Hash returns a hex SHA-256 digest of the canonical form: nodes
// sorted, edge endpoints ordered within each entry, edges sorted. Two
// Data values describing the same graph hash identically regardless of
// entry order or edge orientation.
func (d Data) Hash() string {
	canon := d.Clone()
	slices.Sort(canon.Nodes)
	for i := range canon.Edges {
		e := &canon.Edges[i]
		if e.Target < e.Source {
			e.Source, e.Target = e.Target, e.Source
		}
	}
	slices.SortFunc(canon.Edges, func(a, b EdgeData) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Target, b.Target); c != 0 {
			return c
		}
		return cmp.Compare(a.Weight, b.Weight)
	})
	encoded, err := json.Marshal(canon)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// Graph ↔ Data Conversion
// =============================================================================

// FromData builds a graph from its wire form. Entries the tolerant
// decoding contract would drop (empty ids, non-finite weights) are
// skipped here as well, so hand-built Data values behave like decoded
// ones.
func FromData(d Data) *Graph {
	g := New()
	for _, id := range d.Nodes {
		if id == "" {
			continue
		}
		_ = g.AddNode(id)
	}
	for _, e := range d.Edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		_ = g.AddEdge(e.Source, e.Target, e.Weight)
	}
	return g
}

// Data converts the graph to its wire form. Nodes are sorted by ID for
// deterministic output; edges keep connection-list order, duplicates
// included.
func (g *Graph) Data() Data {
	out := Data{
		Nodes: g.Nodes(),
		Edges: make([]EdgeData, len(g.conns)),
	}
	for i, c := range g.conns {
		out.Edges[i] = EdgeData{Source: c.Source, Target: c.Target, Weight: c.Weight}
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts wire data to indented JSON bytes.
func Marshal(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes to wire data.
func Unmarshal(b []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return Data{}, err
	}
	return d, nil
}

// Write encodes wire data as indented JSON to an io.Writer.
func Write(d Data, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes wire data to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// Read decodes wire data from an io.Reader.
func Read(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// ReadFile reads a JSON file and returns the decoded wire data.
func ReadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Internal Helpers
// =============================================================================

// decodeWireID interprets a raw JSON value as a node id. Strings decode
// directly; numbers keep their literal text. Empty strings and every
// other JSON type are rejected.
func decodeWireID(raw json.RawMessage) (ID, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", false
		}
		return ID(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return ID(n.String()), true
	}
	return "", false
}

func decodeNodeList(raw json.RawMessage) []ID {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	var nodes []ID
	for _, entry := range entries {
		if id, ok := decodeNodeEntry(entry); ok {
			nodes = append(nodes, id)
		}
	}
	return nodes
}

// decodeNodeEntry accepts scalar ids and {"id": ...} objects.
func decodeNodeEntry(raw json.RawMessage) (ID, bool) {
	if id, ok := decodeWireID(raw); ok {
		return id, true
	}
	var obj struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	return decodeWireID(obj.ID)
}

func decodeEdgeList(raw json.RawMessage) []EdgeData {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	var edges []EdgeData
	for _, entry := range entries {
		if e, ok := decodeEdgeEntry(entry); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// decodeEdgeEntry accepts source/target and from/to endpoint names.
// Entries without two decodable endpoints are dropped; an absent or
// malformed weight defaults to 1.
func decodeEdgeEntry(raw json.RawMessage) (EdgeData, bool) {
	var we struct {
		Source json.RawMessage `json:"source"`
		Target json.RawMessage `json:"target"`
		From   json.RawMessage `json:"from"`
		To     json.RawMessage `json:"to"`
		Weight json.RawMessage `json:"weight"`
	}
	if err := json.Unmarshal(raw, &we); err != nil {
		return EdgeData{}, false
	}

	source, ok := decodeWireID(we.Source)
	if !ok {
		source, ok = decodeWireID(we.From)
	}
	if !ok {
		return EdgeData{}, false
	}

	target, ok := decodeWireID(we.Target)
	if !ok {
		target, ok = decodeWireID(we.To)
	}
	if !ok {
		return EdgeData{}, false
	}

	weight := DefaultEdgeWeight
	if len(we.Weight) > 0 {
		var w float64
		if err := json.Unmarshal(we.Weight, &w); err == nil {
			weight = w
		}
	}

	return EdgeData{Source: source, Target: target, Weight: weight}, true
}
