package entity

// CacheEntry is the value kept in the volatile cache for a code: either the
// target URL of a known link or a marker saying the code is known to be absent.
// The zero value is the absent marker.
type CacheEntry struct {
	target string
	found  bool
}

// Found returns an entry for a code that resolves to target.
func Found(target string) CacheEntry {
	return CacheEntry{target: target, found: true}
}

// Missing returns the negative entry for a code with no live record.
func Missing() CacheEntry {
	return CacheEntry{}
}

// Target returns the cached target URL and true, or false for a negative entry.
func (e CacheEntry) Target() (string, bool) {
	return e.target, e.found
}
