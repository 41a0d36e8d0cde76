package extract

import "regexp"

var dpPath = regexp.MustCompile(`/dp/([A-Z0-9]{8,})`)

// ASINFromURL pulls the ASIN out of a /dp/ product link.
func ASINFromURL(u string) (string, bool) {
	m := dpPath.FindStringSubmatch(u)
	if m == nil {
		return "", false
	}
	return m[1], true
}
