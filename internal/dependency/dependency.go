// Package dependency implements the foreign-key dependency engine: a
// depth-first topological sort with cycle detection, wave/level
// batching for parallel-safe emission, and root/leaf/pivot table
// classification, per §4.2.
//
// The traversal style (DFS with a recursion stack plus visited set,
// surfacing the first cycle as an error) follows the dependency-graph
// walker pattern common to schema/migration generators in this space;
// the difference here is that every edge list is built by iterating the
// caller's table slice in order rather than ranging over a map, which is
// what makes ordering among independent tables stable.
package dependency

import (
	"regexp"

	"dbscribe/internal/core"
)

// buildEdges returns, for every table in tables, the list of other
// in-set tables it directly depends on (FK targets), deduplicated and in
// FK-declaration order. Self-references and references to tables outside
// the input set are dropped, per §4.2's edge-case policy.
func buildEdges(tables []*core.Table) map[string][]string {
	inSet := make(map[string]bool, len(tables))
	for _, t := range tables {
		inSet[t.Name] = true
	}

	edges := make(map[string][]string, len(tables))
	for _, t := range tables {
		seen := map[string]bool{}
		var deps []string
		for _, fk := range t.ForeignKeys {
			target := fk.ReferencedTable
			if target == t.Name || !inSet[target] || seen[target] {
				continue
			}
			seen[target] = true
			deps = append(deps, target)
		}
		edges[t.Name] = deps
	}
	return edges
}

func tableIndex(tables []*core.Table) map[string]*core.Table {
	idx := make(map[string]*core.Table, len(tables))
	for _, t := range tables {
		idx[t.Name] = t
	}
	return idx
}

// DetectCircularDependencies walks every table's dependency edges with a
// recursion stack; whenever it encounters a node already on the stack it
// records the path from that node's first occurrence through the
// re-encounter, closing the cycle by repeating the node. Each disjoint
// cycle is reported once.
func DetectCircularDependencies(tables []*core.Table) [][]string {
	edges := buildEdges(tables)
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var stack []string
	var cycles [][]string

	var visit func(name string)
	visit = func(name string) {
		visited[name] = true
		onStack[name] = true
		stack = append(stack, name)

		for _, dep := range edges[name] {
			if onStack[dep] {
				idx := indexOf(stack, dep)
				cycle := append([]string{}, stack[idx:]...)
				cycle = append(cycle, dep)
				cycles = append(cycles, cycle)
				continue
			}
			if !visited[dep] {
				visit(dep)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[name] = false
	}

	for _, t := range tables {
		if !visited[t.Name] {
			visit(t.Name)
		}
	}
	return cycles
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Resolve returns tables in topological order: for every FK A→B with
// both endpoints in the input, B precedes A. Order among mutually
// independent tables matches their order in the input slice. Any cycle
// aborts with CircularDependencyError naming the first cycle found.
func Resolve(tables []*core.Table) ([]*core.Table, error) {
	if cycles := DetectCircularDependencies(tables); len(cycles) > 0 {
		return nil, &core.CircularDependencyError{Cycle: cycles[0]}
	}

	edges := buildEdges(tables)
	byName := tableIndex(tables)
	visited := map[string]bool{}
	var order []string

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, dep := range edges[name] {
			visit(dep)
		}
		order = append(order, name)
	}

	for _, t := range tables {
		visit(t.Name)
	}

	result := make([]*core.Table, 0, len(order))
	for _, name := range order {
		result = append(result, byName[name])
	}
	return result, nil
}

// GroupIntoBatches produces waves of tables where no table in wave k
// references another table in wave k: walk the topological order,
// starting a new wave whenever the next table's dependencies land in the
// wave currently being built.
func GroupIntoBatches(tables []*core.Table) ([][]*core.Table, error) {
	sorted, err := Resolve(tables)
	if err != nil {
		return nil, err
	}
	edges := buildEdges(sorted)

	var batches [][]*core.Table
	var current []*core.Table
	currentNames := map[string]bool{}

	for _, t := range sorted {
		conflict := false
		for _, dep := range edges[t.Name] {
			if currentNames[dep] {
				conflict = true
				break
			}
		}
		if conflict {
			batches = append(batches, current)
			current = nil
			currentNames = map[string]bool{}
		}
		current = append(current, t)
		currentNames[t.Name] = true
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches, nil
}

// GroupByLevel assigns each table the smallest level consistent with
// every in-set dependency sitting at a strictly lower level: level 0 has
// no in-set dependencies, level k's every dependency is at level < k.
func GroupByLevel(tables []*core.Table) (map[int][]string, error) {
	if cycles := DetectCircularDependencies(tables); len(cycles) > 0 {
		return nil, &core.CircularDependencyError{Cycle: cycles[0]}
	}
	edges := buildEdges(tables)
	levelOf := map[string]int{}

	var compute func(name string) int
	compute = func(name string) int {
		if lv, ok := levelOf[name]; ok {
			return lv
		}
		max := -1
		for _, dep := range edges[name] {
			if dlv := compute(dep); dlv > max {
				max = dlv
			}
		}
		lv := max + 1
		levelOf[name] = lv
		return lv
	}

	for _, t := range tables {
		compute(t.Name)
	}

	result := map[int][]string{}
	for _, t := range tables {
		lv := levelOf[t.Name]
		result[lv] = append(result[lv], t.Name)
	}
	return result, nil
}

// GetRootTables returns tables with no in-set outgoing foreign keys —
// the independent entities nothing else needs created first.
func GetRootTables(tables []*core.Table) []*core.Table {
	edges := buildEdges(tables)
	var roots []*core.Table
	for _, t := range tables {
		if len(edges[t.Name]) == 0 {
			roots = append(roots, t)
		}
	}
	return roots
}

// GetLeafTables returns tables no other in-set table references —
// terminal entities such as audit logs or line items.
func GetLeafTables(tables []*core.Table) []*core.Table {
	referenced := map[string]bool{}
	for _, edges := range buildEdges(tables) {
		for _, target := range edges {
			referenced[target] = true
		}
	}
	var leaves []*core.Table
	for _, t := range tables {
		if !referenced[t.Name] {
			leaves = append(leaves, t)
		}
	}
	return leaves
}

var pivotNameRe = regexp.MustCompile(`^[a-z0-9]+_[a-z0-9]+$`)

// IsPivot reports whether t satisfies the pivot-table predicate from
// §4.2: exactly two in-set foreign keys, a two-segment snake_case name,
// and a column count within budget of the two FK columns plus an
// optional id primary key, optional timestamps, and one extra column.
func IsPivot(t *core.Table, inSet map[string]bool) bool {
	var fkCount int
	for _, fk := range t.ForeignKeys {
		if inSet[fk.ReferencedTable] {
			fkCount++
		}
	}
	if fkCount != 2 {
		return false
	}
	if !pivotNameRe.MatchString(t.Name) {
		return false
	}

	budget := 2
	if t.FindColumn("id") != nil {
		budget++
	}
	if t.FindColumn("created_at") != nil {
		budget++
	}
	if t.FindColumn("updated_at") != nil {
		budget++
	}
	budget++ // one extra column allowance
	return len(t.Columns) <= budget
}

// GetPivotTables returns every table in tables satisfying IsPivot.
func GetPivotTables(tables []*core.Table) []*core.Table {
	inSet := make(map[string]bool, len(tables))
	for _, t := range tables {
		inSet[t.Name] = true
	}
	var pivots []*core.Table
	for _, t := range tables {
		if IsPivot(t, inSet) {
			pivots = append(pivots, t)
		}
	}
	return pivots
}

// WouldCreateCycle reports whether adding an edge from→to would create a
// cycle, i.e. whether a path from to back to from already exists.
func WouldCreateCycle(from, to string, tables []*core.Table) bool {
	edges := buildEdges(tables)
	visited := map[string]bool{}

	var dfs func(name string) bool
	dfs = func(name string) bool {
		if name == from {
			return true
		}
		if visited[name] {
			return false
		}
		visited[name] = true
		for _, dep := range edges[name] {
			if dfs(dep) {
				return true
			}
		}
		return false
	}
	return dfs(to)
}
