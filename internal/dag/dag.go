// SPDX-License-Identifier: MPL-2.0

// Package dag orders build tasks. Nodes are task names; an edge from A to B
// means A must finish before B starts.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is the sentinel matched by every *CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError reports the tasks left unordered because they sit on or behind a cycle.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph with deterministic ordering.
	Graph struct {
		// adjacency maps each node to the nodes that wait for it.
		adjacency map[string][]string
		// nodes keeps insertion order.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from must run before to, adding both nodes.
// Repeated edges are stored once.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.adjacency[from], to) {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// AddDependency records that task depends on dependency.
func (g *Graph) AddDependency(task, dependency string) {
	g.AddEdge(dependency, task)
}

// Has reports whether name is a node of the graph.
func (g *Graph) Has(name string) bool { return g.nodeSet[name] }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns an execution order using Kahn's algorithm.
// Nodes that become ready together keep their insertion order.
// A *CycleError lists the nodes that could not be ordered.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}

// Ancestors returns every node that must run before target, in execution
// order. The graph must be acyclic.
func (g *Graph) Ancestors(target string) ([]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	reverse := make(map[string][]string, len(g.nodes))
	for from, tos := range g.adjacency {
		for _, to := range tos {
			reverse[to] = append(reverse[to], from)
		}
	}
	needed := make(map[string]bool)
	stack := []string{target}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range reverse[node] {
			if !needed[dep] {
				needed[dep] = true
				stack = append(stack, dep)
			}
		}
	}
	var result []string
	for _, node := range order {
		if needed[node] {
			result = append(result, node)
		}
	}
	return result, nil
}
