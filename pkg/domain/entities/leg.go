package entities

import "fmt"

// LegID uniquely identifies a directed route leg.
type LegID string

// RouteLeg is a directed arc (origin, destination) in the network.
type RouteLeg struct {
	ID             LegID
	Origin         NodeID
	Destination    NodeID
	TransitDays    int
	TransportMode  State // FROZEN or AMBIENT; THAWED is never a transport mode
	CostPerUnit    float64
	Capacity       *Quantity // nil = uncapacitated
}

// NewRouteLeg validates and constructs a RouteLeg.
func NewRouteLeg(
	id LegID,
	origin, destination NodeID,
	transitDays int,
	mode State,
	costPerUnit float64,
	capacity *Quantity,
) (RouteLeg, error) {
	if id == "" {
		return RouteLeg{}, fmt.Errorf("leg id cannot be empty")
	}
	if origin == "" || destination == "" {
		return RouteLeg{}, fmt.Errorf("leg %s must have origin and destination", id)
	}
	if origin == destination {
		return RouteLeg{}, fmt.Errorf("leg %s cannot have identical origin and destination", id)
	}
	if transitDays < 0 {
		return RouteLeg{}, fmt.Errorf("leg %s transit days cannot be negative", id)
	}
	if mode == StateThawed {
		return RouteLeg{}, fmt.Errorf("leg %s transport mode cannot be THAWED", id)
	}
	if costPerUnit < 0 {
		return RouteLeg{}, fmt.Errorf("leg %s cost per unit cannot be negative", id)
	}
	return RouteLeg{
		ID:            id,
		Origin:        origin,
		Destination:   destination,
		TransitDays:   transitDays,
		TransportMode: mode,
		CostPerUnit:   costPerUnit,
		Capacity:      capacity,
	}, nil
}

// Network is the directed graph of nodes and legs the planner operates over.
type Network struct {
	Nodes []Node
	Legs  []RouteLeg
}

// NodeByID returns the node with the given id, if present.
func (n Network) NodeByID(id NodeID) (Node, bool) {
	for _, node := range n.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return Node{}, false
}

// LegsFrom returns all legs originating at the given node.
func (n Network) LegsFrom(origin NodeID) []RouteLeg {
	var out []RouteLeg
	for _, leg := range n.Legs {
		if leg.Origin == origin {
			out = append(out, leg)
		}
	}
	return out
}

// ManufacturingNode returns the unique manufacturing node.
func (n Network) ManufacturingNode() (Node, error) {
	var found *Node
	for i := range n.Nodes {
		if n.Nodes[i].Kind == Manufacturing {
			if found != nil {
				return Node{}, fmt.Errorf("network has more than one manufacturing node: %s and %s", found.ID, n.Nodes[i].ID)
			}
			found = &n.Nodes[i]
		}
	}
	if found == nil {
		return Node{}, fmt.Errorf("network has no manufacturing node")
	}
	return *found, nil
}
