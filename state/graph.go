// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"errors"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// sortEvaluators returns the keys of evaluators in dependency order
//  Note: cycles are reported as a ConfigError listing the keys involved
func sortEvaluators(evals map[string]Evaluator) (order []string, err error) {

	// nodes
	keys := make([]string, 0, len(evals))
	for key := range evals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	ids := make(map[string]int64, len(keys))
	g := simple.NewDirectedGraph()
	for i, key := range keys {
		ids[key] = int64(i)
		g.AddNode(simple.Node(i))
	}

	// edges: dependency => dependent
	for _, key := range keys {
		for _, dep := range evals[key].Dependencies() {
			if dep == key {
				return nil, ConfigErr("evaluator of %q depends on itself", key)
			}
			from, ok := ids[dep]
			if !ok {
				return nil, ConfigErr("missing dependency: %q depends on %q which has no evaluator", key, dep)
			}
			g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(ids[key])))
		}
	}

	// sort
	nodes, err := topo.SortStabilized(g, func(ns []graph.Node) {
		sort.Slice(ns, func(i, j int) bool { return ns[i].ID() < ns[j].ID() })
	})
	if err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			var l []string
			for _, cycle := range cycles {
				var names []string
				for _, n := range cycle {
					names = append(names, keys[n.ID()])
				}
				l = append(l, "["+strings.Join(names, ", ")+"]")
			}
			return nil, ConfigErr("cyclic dependency among evaluators: %s", strings.Join(l, " "))
		}
		return nil, ConfigErr("cannot sort evaluators: %v", err)
	}
	for _, n := range nodes {
		order = append(order, keys[n.ID()])
	}
	return
}
