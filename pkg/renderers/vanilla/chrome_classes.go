package vanilla

// ChromeClass is a typed identifier for the semantic CSS classes the page
// templates emit. The embedded stylesheet targets these names.
type ChromeClass string

const (
	ClassPage         ChromeClass = "pf-page"
	ClassHeader       ChromeClass = "pf-header"
	ClassCard         ChromeClass = "pf-card"
	ClassSection      ChromeClass = "pf-section"
	ClassGrid         ChromeClass = "pf-grid"
	ClassField        ChromeClass = "pf-field"
	ClassSubmit       ChromeClass = "pf-submit"
	ClassResult       ChromeClass = "pf-result"
	ClassResultPrice  ChromeClass = "pf-result--price"
	ClassResultError  ChromeClass = "pf-result--error"
	ClassInfo         ChromeClass = "pf-info"
	ClassPendingState ChromeClass = "is-pending"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"page":        string(ClassPage),
		"header":      string(ClassHeader),
		"card":        string(ClassCard),
		"section":     string(ClassSection),
		"grid":        string(ClassGrid),
		"field":       string(ClassField),
		"submit":      string(ClassSubmit),
		"result":      string(ClassResult),
		"resultPrice": string(ClassResultPrice),
		"resultError": string(ClassResultError),
		"info":        string(ClassInfo),
		"pending":     string(ClassPendingState),
	}
}
