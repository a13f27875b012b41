// Package networkvalidator performs pre-solve structural validation of a
// Network, grounded on the teacher's pkg/domain/services/bom_validator
// (cycle detection -> reachability checks, duplicate-line detection ->
// duplicate-leg detection). Validate returns state mismatches as
// entities.InvalidNetworkError values inside its result, not as an error;
// neither the index builder (C1) nor the CLI commands call it.
package networkvalidator

import (
	"fmt"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// ValidationResult mirrors the teacher's ValidationResult shape: a bag of
// findings plus a flat list of human-readable errors.
type ValidationResult struct {
	DuplicateLegs    []entities.RouteLeg
	UnreachableNodes []entities.NodeID
	StateMismatches  []entities.InvalidNetworkError
	Errors           []string
}

// Validate runs every structural check on the network and returns a
// ValidationResult. Callers treat a non-empty Errors slice as fatal.
func Validate(network entities.Network) (*ValidationResult, error) {
	result := &ValidationResult{
		DuplicateLegs:    make([]entities.RouteLeg, 0),
		UnreachableNodes: make([]entities.NodeID, 0),
		StateMismatches:  make([]entities.InvalidNetworkError, 0),
		Errors:           make([]string, 0),
	}

	if _, err := network.ManufacturingNode(); err != nil {
		return nil, fmt.Errorf("network validation: %w", err)
	}

	result.DuplicateLegs = detectDuplicateLegs(network.Legs)
	if len(result.DuplicateLegs) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("found %d duplicate route legs", len(result.DuplicateLegs)))
	}

	mfg, _ := network.ManufacturingNode()
	adjacency := buildAdjacencyMap(network.Legs)

	unreachable := detectUnreachableNodes(mfg.ID, adjacency, network.Nodes)
	result.UnreachableNodes = unreachable
	if len(unreachable) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("nodes unreachable from manufacturing: %v", unreachable))
	}

	mismatches := detectStateMismatches(network)
	result.StateMismatches = mismatches
	for _, m := range mismatches {
		result.Errors = append(result.Errors, m.Error())
	}

	return result, nil
}

// buildAdjacencyMap maps origin -> reachable destinations, mirroring the
// BOM validator's parent -> children adjacency map.
func buildAdjacencyMap(legs []entities.RouteLeg) map[entities.NodeID][]entities.NodeID {
	adjacency := make(map[entities.NodeID][]entities.NodeID)
	for _, leg := range legs {
		children, exists := adjacency[leg.Origin]
		if !exists {
			children = make([]entities.NodeID, 0)
		}
		found := false
		for _, c := range children {
			if c == leg.Destination {
				found = true
				break
			}
		}
		if !found {
			children = append(children, leg.Destination)
			adjacency[leg.Origin] = children
		}
	}
	return adjacency
}

// detectUnreachableNodes performs a BFS from the manufacturing node and
// reports every node the BFS never reaches.
func detectUnreachableNodes(mfg entities.NodeID, adjacency map[entities.NodeID][]entities.NodeID, nodes []entities.Node) []entities.NodeID {
	visited := map[entities.NodeID]bool{mfg: true}
	queue := []entities.NodeID{mfg}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var unreachable []entities.NodeID
	for _, n := range nodes {
		if n.ID != mfg && !visited[n.ID] {
			unreachable = append(unreachable, n.ID)
		}
	}
	return unreachable
}

// detectDuplicateLegs finds duplicate legs (same origin, destination, transport mode).
func detectDuplicateLegs(legs []entities.RouteLeg) []entities.RouteLeg {
	seen := make(map[string]entities.RouteLeg)
	var duplicates []entities.RouteLeg
	for _, leg := range legs {
		key := fmt.Sprintf("%s|%s|%s", leg.Origin, leg.Destination, leg.TransportMode)
		if existing, exists := seen[key]; exists {
			duplicates = append(duplicates, leg, existing)
		} else {
			seen[key] = leg
		}
	}
	return duplicates
}

// detectStateMismatches raises InvalidNetworkError for any leg whose
// transport mode the destination cannot store AND that cannot thaw on
// arrival (thaw-on-arrival absorbs FROZEN -> no-frozen-storage mismatches;
// every other mismatch is fatal per spec.md §4.1).
func detectStateMismatches(network entities.Network) []entities.InvalidNetworkError {
	var mismatches []entities.InvalidNetworkError
	for _, leg := range network.Legs {
		dest, ok := network.NodeByID(leg.Destination)
		if !ok {
			mismatches = append(mismatches, *entities.NewInvalidNetworkError(
				leg.Destination, leg.TransportMode, fmt.Sprintf("leg %s references undefined destination", leg.ID),
			))
			continue
		}
		if dest.SupportsState(leg.TransportMode) {
			continue
		}
		if leg.TransportMode == entities.StateFrozen {
			// Thaw-on-arrival always provides an escape hatch to ambient
			// storage as long as the destination supports ambient.
			if dest.SupportsState(entities.StateAmbient) {
				continue
			}
		}
		mismatches = append(mismatches, *entities.NewInvalidNetworkError(
			dest.ID, leg.TransportMode,
			fmt.Sprintf("leg %s delivers %s but destination has no compatible storage and no thaw path", leg.ID, leg.TransportMode),
		))
	}
	return mismatches
}
