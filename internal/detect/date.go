package detect

import "regexp"

// Accepted raw shapes: DD-Mon-YYYY, DD/MM/YYYY, YYYY-MM-DD. A trailing clock
// time is matched and dropped.
const dateValue = `\s*:\s*(\d{2}-[A-Za-z]{3}-\d{4}|\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2})` +
	`(?:[ T]+\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AaPp][Mm])?)?`

var (
	startDateStrategy = Strategy{
		Name: "start-date",
		Find: regexFinder(regexp.MustCompile(`(?i)\bStart\s*Date`+dateValue), 1),
	}
	endDateStrategy = Strategy{
		Name: "end-date",
		Find: regexFinder(regexp.MustCompile(`(?i)\bEnd\s*Date`+dateValue), 1),
	}
)

// DetectStartDate returns the raw date following the first "Start Date:" label.
func DetectStartDate(text string) string {
	c, _, _ := FirstMatch(text, PickFirst, startDateStrategy)
	return c.Value
}

// DetectEndDate returns the raw date following the first "End Date:" label.
func DetectEndDate(text string) string {
	c, _, _ := FirstMatch(text, PickFirst, endDateStrategy)
	return c.Value
}
