package middleware

import "github.com/aretw0/onlylist/pkg/ports"

// Middleware allows wrapping a Slot to add behavior.
type Middleware func(ports.Slot) ports.Slot

// Chain applies middlewares so that the first one listed is the outermost.
func Chain(slot ports.Slot, mws ...Middleware) ports.Slot {
	for i := len(mws) - 1; i >= 0; i-- {
		slot = mws[i](slot)
	}
	return slot
}
