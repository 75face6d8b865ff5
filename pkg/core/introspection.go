package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	InFlightResyncs int    `json:"in_flight_resyncs"`
	StoreType       string `json:"store_type"`
	Kinds           []Kind `json:"kinds"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	storeType := "store"
	if comp, ok := s.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	return ServiceState{
		InFlightResyncs: s.guard.inFlightCount(),
		StoreType:       storeType,
		Kinds:           Kinds(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
