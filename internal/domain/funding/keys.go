package funding

import "strings"

// ResolutionKey is the lookup key for companies and investors. Without normalization it is the
// trimmed name, so identity stays plain string equality; with normalization it is case-folded
// and whitespace-collapsed ("ACME  Ventures" and "Acme Ventures" resolve to one row).
func ResolutionKey(name string, normalize bool) string {
	name = strings.TrimSpace(name)
	if !normalize {
		return name
	}
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
