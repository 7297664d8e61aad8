package ports

// Localizer resolves message keys into user-facing text.
// Implementations select the best-matching language bundle, falling back to
// a configured default (and logging) when the requested locale is missing.
type Localizer interface {
	// Message returns the localized text for key in the given locale,
	// formatting args fmt.Sprintf-style into the catalog template.
	Message(locale, key string, args ...any) string
}
