package model

// DefaultSectionID collects fields that declare no section.
const DefaultSectionID = "general"

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler        func(name, title string) string
	DefaultSection string
}

func defaultOptions() Options {
	return Options{
		Labeler:        DefaultLabeler,
		DefaultSection: DefaultSectionID,
	}
}
