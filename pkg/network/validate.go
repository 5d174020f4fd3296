package network

import (
	"errors"
	"fmt"
)

// Validate checks what the engine would reject: edges without a length,
// malformed services, and service node references missing from the graph.
// Every problem found is reported. Run never calls Validate.
func (n *Network) Validate() error {
	var errs []error
	for _, e := range n.g.Edges() {
		if e.Data.Length == nil {
			errs = append(errs, &ValidationError{U: e.U, V: e.V, Attr: "length"})
		}
	}
	for _, svc := range n.services {
		if err := svc.Validate(); err != nil {
			errs = append(errs, err)
		}
		if !n.g.HasNode(svc.InitialPosition) {
			errs = append(errs, fmt.Errorf("service %q: initial position %q is not a node", svc.ServiceID, svc.InitialPosition))
		}
		for i, stop := range svc.Route {
			if !n.g.HasNode(stop.NodeID) {
				errs = append(errs, fmt.Errorf("service %q: route[%d] node %q is not a node", svc.ServiceID, i, stop.NodeID))
			}
		}
	}
	return errors.Join(errs...)
}
