// Package domain contains the core domain models for the compilation command graph.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// NodeID identifies a command inside a Graph.
type NodeID int

// Graph is the producer/consumer relation between commands, derived purely from
// the file paths they declare.
type Graph struct {
	labels  []string
	inputs  [][]InternedString
	outputs [][]InternedString

	producers map[InternedString]NodeID
	consumers map[InternedString][]NodeID

	dependents   [][]NodeID
	dependencies [][]NodeID
	linked       bool

	executionOrder []NodeID
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		producers: make(map[InternedString]NodeID),
		consumers: make(map[InternedString][]NodeID),
	}
}

// AddNode adds a command with its declared files to the graph.
// It returns ErrDuplicateOutput if another node already produces one of the outputs.
func (g *Graph) AddNode(label string, inputs, outputs []string) (NodeID, error) {
	id := NodeID(len(g.labels))

	outs := NewInternedStrings(outputs)
	for _, out := range outs {
		if first, exists := g.producers[out]; exists && first != id {
			err := zerr.With(zerr.Wrap(ErrDuplicateOutput, "cannot register producer"), "file", out.String())
			err = zerr.With(err, "first", g.labels[first])
			return 0, zerr.With(err, "second", label)
		}
	}
	for _, out := range outs {
		g.producers[out] = id
	}

	ins := NewInternedStrings(inputs)
	for _, in := range ins {
		g.consumers[in] = append(g.consumers[in], id)
	}

	g.labels = append(g.labels, label)
	g.inputs = append(g.inputs, ins)
	g.outputs = append(g.outputs, outs)
	g.linked = false
	return id, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.labels)
}

// Label returns the description of a node.
func (g *Graph) Label(id NodeID) string {
	return g.labels[id]
}

// Inputs returns the declared input files of a node.
func (g *Graph) Inputs(id NodeID) []InternedString {
	return g.inputs[id]
}

// Outputs returns the declared output files of a node.
func (g *Graph) Outputs(id NodeID) []InternedString {
	return g.outputs[id]
}

// Producer returns the node producing file, if any.
func (g *Graph) Producer(file InternedString) (NodeID, bool) {
	id, ok := g.producers[file]
	return id, ok
}

// Consumers returns the nodes declaring file as an input.
func (g *Graph) Consumers(file InternedString) []NodeID {
	return g.consumers[file]
}

// Dependents returns the nodes consuming at least one output of id.
func (g *Graph) Dependents(id NodeID) []NodeID {
	g.link()
	return g.dependents[id]
}

// Dependencies returns the nodes producing at least one input of id.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	g.link()
	return g.dependencies[id]
}

// UnproducedInputs yields every input file that no node produces, with the node reading it.
func (g *Graph) UnproducedInputs() iter.Seq2[NodeID, InternedString] {
	return func(yield func(NodeID, InternedString) bool) {
		for id, ins := range g.inputs {
			for _, in := range ins {
				if _, ok := g.producers[in]; ok {
					continue
				}
				if !yield(NodeID(id), in) {
					return
				}
			}
		}
	}
}

// link derives the deduplicated adjacency lists from the producer map.
func (g *Graph) link() {
	if g.linked {
		return
	}
	n := len(g.labels)
	g.dependents = make([][]NodeID, n)
	g.dependencies = make([][]NodeID, n)

	for consumer, ins := range g.inputs {
		seen := make(map[NodeID]struct{}, len(ins))
		for _, in := range ins {
			producer, ok := g.producers[in]
			if !ok {
				continue
			}
			if _, dup := seen[producer]; dup {
				continue
			}
			seen[producer] = struct{}{}
			g.dependencies[consumer] = append(g.dependencies[consumer], producer)
			g.dependents[producer] = append(g.dependents[producer], NodeID(consumer))
		}
	}
	g.linked = true
}

// Validate checks the graph for cycles using a depth-first topological sort.
// It populates the execution order used by Walk if successful.
func (g *Graph) Validate() error {
	g.link()
	g.executionOrder = make([]NodeID, 0, len(g.labels))
	visited := make([]int, len(g.labels)) // 0: unvisited, 1: visiting, 2: visited
	var path []NodeID

	var visit func(u NodeID) error
	visit = func(u NodeID) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.dependencies[u] {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for id := range g.labels {
		if visited[id] == 0 {
			if err := visit(NodeID(id)); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
// The path runs from consumers to producers, so it is reversed to read in build order.
func (g *Graph) buildCycleError(path []NodeID, dep NodeID) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	names := make([]string, 0, len(path)-startIdx+1)
	names = append(names, g.labels[dep])
	for i := len(path) - 1; i >= startIdx; i-- {
		names = append(names, g.labels[path[i]])
	}
	return zerr.With(zerr.Wrap(ErrDependencyCycle, "invalid command graph"), "cycle", strings.Join(names, " -> "))
}

// Walk returns an iterator that yields nodes with producers before their consumers.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for _, id := range g.executionOrder {
			if !yield(id) {
				return
			}
		}
	}
}
