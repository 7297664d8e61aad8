// Package ports defines the interfaces between the Parley engine and its
// collaborators: the NLU component, skill implementations, the localizer,
// and context snapshot stores.
//
// The engine depends only on these contracts; adapters under pkg/adapters
// provide reference implementations.
package ports
