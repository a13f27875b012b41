// Package indexbuilder implements C1 of the planning core: it enumerates
// the sparse cohort, shipment, and pallet index sets from the network and
// horizon (spec.md §4.1). Index tables are plain slices — arena tables, per
// spec.md §9 "Cohort graphs and ownership" — never pointer graphs; only the
// inventory table is sorted.
package indexbuilder

import (
	"container/heap"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// ReachabilityTable holds, per node, the earliest number of days after
// production that a cohort can physically arrive there, computed by BFS
// (Dijkstra, since transit_days are non-negative edge weights) over the leg
// graph from the manufacturing node (spec.md §4.1 "Algorithm").
type ReachabilityTable struct {
	EarliestArrivalDays map[entities.NodeID]int
}

// BuildReachability computes the earliest-arrival table from the
// manufacturing node over the network's legs.
func BuildReachability(network entities.Network) (*ReachabilityTable, error) {
	mfg, err := network.ManufacturingNode()
	if err != nil {
		return nil, err
	}

	dist := map[entities.NodeID]int{mfg.ID: 0}
	pq := &pathQueue{{node: mfg.ID, days: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pathItem)
		if best, ok := dist[item.node]; ok && item.days > best {
			continue
		}
		for _, leg := range network.LegsFrom(item.node) {
			next := item.days + leg.TransitDays
			if best, ok := dist[leg.Destination]; !ok || next < best {
				dist[leg.Destination] = next
				heap.Push(pq, pathItem{node: leg.Destination, days: next})
			}
		}
	}

	return &ReachabilityTable{EarliestArrivalDays: dist}, nil
}

// IsReachable reports whether node has a known path from manufacturing.
func (r *ReachabilityTable) IsReachable(node entities.NodeID) bool {
	_, ok := r.EarliestArrivalDays[node]
	return ok
}

type pathItem struct {
	node entities.NodeID
	days int
}

type pathQueue []pathItem

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].days < q[j].days }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(pathItem)) }
func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
