package engine

import "teamtasks/internal/domain"

// ReadyTasks returns, in task insertion order, every task that is
// pending and whose dependencies are all done. A dependency on an id
// that does not exist is never satisfied, so the task never appears.
func ReadyTasks(tasks []domain.Task) []domain.Task {
	done := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Status == domain.StatusDone {
			done[t.ID] = true
		}
	}
	var ready []domain.Task
	for _, t := range tasks {
		if t.Status != domain.StatusPending {
			continue
		}
		ok := true
		for _, d := range t.Dependencies {
			if !done[d] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, t)
		}
	}
	return ready
}

// Traversal colors for cycle detection.
const (
	unvisited = iota
	onStack
	finished
)

type frame struct {
	id   string
	next int // index of the next dependency to examine
}

// DetectCycles walks the dependency relation (edge task -> dependency)
// with an explicit stack and a three-color scheme. An edge into a node
// currently on the stack is a back-edge, reported as
// "<node> -> <dependency>". Roots are visited in task insertion order
// so diagnostics are reproducible. Finding a back-edge abandons the
// traversal rooted at the current root and moves to the next untouched
// one. An empty result means the graph is acyclic.
func DetectCycles(tasks []domain.Task) []string {
	deps := make(map[string][]string, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		deps[t.ID] = t.Dependencies
		order = append(order, t.ID)
	}
	color := make(map[string]int, len(tasks))
	var edges []string
	for _, root := range order {
		if color[root] != unvisited {
			continue
		}
		color[root] = onStack
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			ds := deps[f.id]
			if f.next >= len(ds) {
				color[f.id] = finished
				stack = stack[:len(stack)-1]
				continue
			}
			d := ds[f.next]
			f.next++
			switch color[d] {
			case unvisited:
				// Dependencies on ids with no task are leaves.
				color[d] = onStack
				stack = append(stack, frame{id: d})
			case onStack:
				edges = append(edges, f.id+" -> "+d)
				stack = nil
			}
		}
	}
	return edges
}
