package ports

import "github.com/parley-dev/parley/pkg/domain"

// Understander is the natural-language-understanding collaborator.
// It turns raw user text into intents and entity values. The engine passes
// the conversation context by reference; implementations may write extracted
// entities straight into it.
type Understander interface {
	// Understand classifies a free-form utterance.
	Understand(input string, ctx *domain.Context) (*domain.Understanding, error)

	// UnderstandEntity classifies an utterance that answers a pending
	// slot-filling question, biased toward extracting entityName.
	UnderstandEntity(input string, ctx *domain.Context, entityName string) (*domain.Understanding, error)

	// AddUsedEntities registers entity names a skill may ask for.
	// Called once per skill at registration time.
	AddUsedEntities(entities []string)

	// AddUsedIntents registers intent labels a skill can handle.
	AddUsedIntents(intents []string)
}
