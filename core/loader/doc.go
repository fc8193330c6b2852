// Package loader registers HTTP features on the Fiber app.
//
// A feature bundles its service, handler and routes behind three methods:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager keeps features in registration order. LoadAll skips disabled ones
// and stops at the first Load error. The service registers 'objects' and
// 'buckets'.
package loader
