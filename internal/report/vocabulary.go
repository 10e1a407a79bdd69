package report

// IssueTitles is the closed vocabulary of issue categories a report may
// carry. Create rejects titles outside this set.
var IssueTitles = []string{
	"Large Pothole on Main St",
	"Street Light Not Working",
	"Yellow Spot",
	"Overflow from Septic Tank",
	"Overflow of Sewerage",
	"Dead Animal",
	"Dirty Dustbin",
	"Garbage Dump",
	"Dirty Street",
	"Dirty Public Toilet",
	"Damaged Park Bench",
}

var issueTitleSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(IssueTitles))
	for _, t := range IssueTitles {
		m[t] = struct{}{}
	}
	return m
}()

// ValidIssueTitle reports whether title is in the closed vocabulary.
func ValidIssueTitle(title string) bool {
	_, ok := issueTitleSet[title]
	return ok
}
