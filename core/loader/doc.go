// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface, which defines its name, an
// enabled switch and route registration. The Manager keeps the registry and
// loads enabled features in registration order.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Features such as 'events' and 'health' are developed and tested in isolation
// and wired together by the start command.
package loader
