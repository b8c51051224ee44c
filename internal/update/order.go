package update

import (
	"errors"
	"fmt"
	"slices"

	"datagen/internal/model"
)

// errCycle reports a cyclic model hierarchy.
var errCycle = errors.New("cyclic model hierarchy")

// Ordered returns the requests for the annotated types in types with every
// annotated ancestor ahead of its descendants. Unrelated types keep their
// input order.
func Ordered(p model.Provider, types []*model.Type) ([]Request, error) {
	var annotated []*model.Type
	for _, t := range types {
		if len(t.Annotation) > 0 {
			annotated = append(annotated, t)
		}
	}

	index := make(map[model.TypeID]int, len(annotated))
	for i, t := range annotated {
		index[t.ID] = i
	}

	deps := make([][]int, len(annotated))
	for i, t := range annotated {
		supers, err := p.Supertypes(t)
		if err != nil {
			return nil, fmt.Errorf("ordering %s: %w", t.ID, err)
		}

		for _, s := range supers {
			if j, ok := index[s.ID]; ok {
				deps[i] = append(deps[i], j)
				break
			}
		}
	}

	order, err := topoSort(len(annotated), func(i int) []int { return deps[i] })
	if err != nil {
		return nil, err
	}

	reqs := make([]Request, len(order))
	for k, i := range order {
		reqs[k] = Request{Model: annotated[i].ID}
	}

	return reqs, nil
}

// topoSort returns node indices in dependency order. depsFn(i) yields the
// nodes that must come before i. Among ready nodes the smallest index goes
// first.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int
	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) != n {
		return nil, errCycle
	}

	return order, nil
}
