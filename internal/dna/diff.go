package dna

// Differences counts mismatching positions over the shared prefix of a and b
// and adds the length difference. It is symmetric and zero only for equal
// strings.
func Differences(a, b string) int {
	short, long := len(a), len(b)
	if short > long {
		short, long = long, short
	}
	diff := long - short
	for i := 0; i < short; i++ {
		if a[i] != b[i] {
			diff++
		}
	}
	return diff
}

// Prefix returns the first n bytes of s, or s itself when it is shorter.
func Prefix(s string, n int) string {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return ""
	}
	return s[:n]
}

// Suffix returns the last n bytes of s, or s itself when it is shorter.
func Suffix(s string, n int) string {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return ""
	}
	return s[len(s)-n:]
}
