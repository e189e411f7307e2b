// Package generator defines the interface to the external text-generation
// API. The service layer depends on this interface; the openrouter
// subpackage provides the real HTTP implementation and tests substitute a
// mock.
package generator

import "context"

// Request is one generation call: a system instruction framing the model's
// role and the user instruction built from the caption request.
type Request struct {
	System string
	User   string
}

// Generator produces a completion for the given instructions. The upstream
// is a black box: instruction in, text out, fallible.
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
}
