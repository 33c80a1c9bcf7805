// Package suggest produces quest descriptors from an external AI model. The
// engine treats these exactly like manually created quests; a slow or failed
// generation degrades to no suggestions and never touches game state.
package suggest

import (
	"context"

	"lifequest/internal/engine"
)

// Generator proposes quests for a free-form goal. Implementations are
// additive-only collaborators: they return descriptors and nothing else.
type Generator interface {
	Suggest(ctx context.Context, goal string, count int) ([]engine.QuestDescriptor, error)
}
