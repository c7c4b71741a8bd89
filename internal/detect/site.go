package detect

import (
	"regexp"
	"strings"
)

var siteCodeRe = regexp.MustCompile(`\b[A-Z]{2}\d{1,3}\b`)

// DetectSiteCode returns the site code closest above the first line that
// begins with "Order". Text without such a line has no site code.
func DetectSiteCode(text string) string {
	lines := strings.Split(text, "\n")

	orderLine := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "order") {
			orderLine = i
			break
		}
	}

	for i := orderLine - 1; i >= 0; i-- {
		codes := siteCodeRe.FindAllString(lines[i], -1)
		if len(codes) > 0 {
			return codes[len(codes)-1]
		}
	}

	return ""
}

// MajorityCode returns the most frequent non-empty code. Ties go to the code
// seen first.
func MajorityCode(codes []string) string {
	counts := make(map[string]int, len(codes))
	best, bestCount := "", 0

	for _, c := range codes {
		if c == "" {
			continue
		}
		counts[c]++
	}
	for _, c := range codes {
		if c != "" && counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}

	return best
}
