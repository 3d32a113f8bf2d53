// Package goal models hierarchical goals with derived completion progress.
package goal

import (
	"fmt"

	"github.com/google/uuid"
)

// Subtask is one node of a goal's task tree. Children may nest
// arbitrarily deep.
type Subtask struct {
	Name     string    `json:"name"`
	Done     bool      `json:"done"`
	Children []Subtask `json:"children,omitempty"`
}

// Goal is a named tree of subtasks with an optional due date
// (YYYY-MM-DD, empty means none).
type Goal struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	DueDate  string    `json:"due_date,omitempty"`
	Subtasks []Subtask `json:"subtasks,omitempty"`
}

// New creates a goal with a fresh UUID.
func New(name, dueDate string) Goal {
	return Goal{
		ID:      uuid.NewString(),
		Name:    name,
		DueDate: dueDate,
	}
}

// CountNodes returns total and completed node counts for the subtree,
// counting every node rather than leaves only.
func CountNodes(subtasks []Subtask) (total, done int) {
	for _, st := range subtasks {
		total++
		if st.Done {
			done++
		}
		ct, cd := CountNodes(st.Children)
		total += ct
		done += cd
	}
	return total, done
}

// Progress returns the goal's completion as a 0-100 percentage. A goal
// with no subtasks is 0 percent.
func (g *Goal) Progress() float64 {
	total, done := CountNodes(g.Subtasks)
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// At returns the subtask at the given index path, e.g. [1, 0] is the
// first child of the second top-level subtask.
func (g *Goal) At(path []int) (*Subtask, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty subtask path")
	}
	nodes := g.Subtasks
	var node *Subtask
	for depth, idx := range path {
		if idx < 0 || idx >= len(nodes) {
			return nil, fmt.Errorf("subtask path %v: index %d out of range at depth %d", path, idx, depth)
		}
		node = &nodes[idx]
		nodes = node.Children
	}
	return node, nil
}

// Toggle flips the done flag of the subtask at path.
func (g *Goal) Toggle(path []int) error {
	node, err := g.At(path)
	if err != nil {
		return err
	}
	node.Done = !node.Done
	return nil
}

// AddSubtask appends a subtask under the node at path, or at the top
// level when path is empty.
func (g *Goal) AddSubtask(path []int, name string) error {
	if name == "" {
		return fmt.Errorf("subtask name is empty")
	}
	child := Subtask{Name: name}
	if len(path) == 0 {
		g.Subtasks = append(g.Subtasks, child)
		return nil
	}
	node, err := g.At(path)
	if err != nil {
		return err
	}
	node.Children = append(node.Children, child)
	return nil
}
