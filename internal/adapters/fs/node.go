package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/quick/internal/core/ports"
)

const (
	WalkerNodeID   graft.ID = "adapter.fs.walker"
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	VerifierNodeID graft.ID = "adapter.fs.verifier"
	HasherNodeID   graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Resolver, error) {
			return NewResolver(), nil
		},
	})

	graft.Register(graft.Node[*Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Verifier, error) {
			return NewVerifier(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
