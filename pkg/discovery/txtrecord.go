package discovery

import "strings"

// parseTXT turns raw "key=value" TXT strings (as zeroconf hands them back)
// into a lookup map. Entries without an "=" are ignored rather than treated
// as an error — televisions are known to advertise boilerplate keys this
// client doesn't care about.
func parseTXT(entries []string) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}
