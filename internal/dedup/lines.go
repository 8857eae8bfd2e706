// Package dedup removes duplicate record lines from a user's stored file.
// Lines are compared byte-for-byte: two records that differ in any field are
// distinct, no fuzzy matching is applied at this stage.
package dedup

import "sort"

// UniqueSorted returns the distinct lines in lexicographically sorted order.
// The input is not modified. Applying UniqueSorted to its own output returns
// an equal slice, and an empty input yields an empty output.
func UniqueSorted(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	sort.Strings(out)
	return out
}
