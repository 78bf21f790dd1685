package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/procdef/model/graph"
)

// Verification reasons
const (
	ReasonNoStart          = "no start step"
	ReasonUnreachable      = "unreachable"
	ReasonBadPrevious      = "bad number of previous"
	ReasonBadNext          = "bad number of next"
	ReasonTooManyEndpoints = "too many endpoints"
	ReasonEmptyName        = "name is empty"
	ReasonDuplicateName    = "duplicate name"
	ReasonLoop             = "problem in loop"
	ReasonUnresolved       = "cannot resolve definition"
)

// VerificationError describes one structural defect of a composite
type VerificationError struct {
	Composite string
	StepID    int
	Step      string
	Reason    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: step %s (%d): %s", e.Composite, e.Step, e.StepID, e.Reason)
}

// Verify checks the composite's child graph and returns every defect found.
// Steps are visited in insertion order and rules applied in a fixed order, so
// repeated runs return the same errors. Inline composites are verified
// recursively. Nothing is modified.
func (d *StepDefinition) Verify(ctx context.Context, resolver Resolver) (bool, []error) {
	if !d.IsComposite() {
		return true, nil
	}
	var errs []error
	g := d.Children
	report := func(vertex *graph.Vertex[*StepDefinition], reason string) {
		errs = append(errs, &VerificationError{Composite: d.Name, StepID: vertex.ID, Step: vertex.Value.Name, Reason: reason})
	}
	if len(g.Vertices) > 0 && g.StartVertex() == nil {
		errs = append(errs, &VerificationError{Composite: d.Name, StepID: graph.NoVertex, Reason: ReasonNoStart})
	}
	allowedEndpoints := d.AllowedEndpoints
	if allowedEndpoints <= 0 {
		allowedEndpoints = 1
	}
	endpoints := len(g.Terminals())
	names := map[string]int{}
	for _, vertex := range g.Vertices {
		names[vertex.Value.Name]++
	}

	for _, vertex := range g.Vertices {
		step := vertex.Value
		previous, next := len(vertex.InEdgeIDs), len(vertex.OutEdgeIDs)
		if previous == 0 && vertex.ID != g.StartVertexID {
			report(vertex, ReasonUnreachable)
		}
		switch {
		case step.Kind.IsJoin():
			if next > 1 {
				report(vertex, ReasonBadNext)
			}
		case step.Kind.IsSplit():
			if previous > 1 {
				report(vertex, ReasonBadPrevious)
			}
		default:
			if previous > 1 {
				report(vertex, ReasonBadPrevious)
			}
			if next > 1 {
				report(vertex, ReasonBadNext)
			}
		}
		if next == 0 && endpoints > allowedEndpoints {
			report(vertex, ReasonTooManyEndpoints)
		}
		if strings.TrimSpace(step.Name) == "" {
			report(vertex, ReasonEmptyName)
		} else if names[step.Name] > 1 {
			report(vertex, ReasonDuplicateName)
		}
		if step.Kind == Slot {
			target, err := d.ResolveSlot(ctx, resolver, step)
			if err != nil {
				report(vertex, ReasonUnresolved+": "+err.Error())
			} else {
				for _, key := range target.Abstract() {
					if prop, ok := step.Properties.Get(key); !ok || prop.Abstract {
						report(vertex, fmt.Sprintf("abstract property '%s' not defined in slot", key))
					}
				}
			}
		}
		if step.Kind != Loop && inUncontrolledCycle(g, vertex.ID) {
			report(vertex, ReasonLoop)
		}
		if step.Kind == LocalComposite {
			if _, nested := step.Verify(ctx, resolver); len(nested) > 0 {
				errs = append(errs, nested...)
			}
		}
	}
	return len(errs) == 0, errs
}

// inUncontrolledCycle reports whether id lies on a cycle, through any outgoing
// transition, that passes no Loop step
func inUncontrolledCycle(g *graph.Graph[*StepDefinition], id int) bool {
	notLoop := func(vertex *graph.Vertex[*StepDefinition]) bool { return vertex.Value.Kind != Loop }
	upstream := map[int]bool{}
	for candidate := range g.TraverseWhere(id, graph.Upstream, notLoop) {
		upstream[candidate] = true
	}
	for _, next := range g.Neighbours(id, graph.Downstream) {
		if g.Vertex(next).Value.Kind == Loop {
			continue
		}
		if upstream[next] {
			return true
		}
	}
	return false
}
