package tabular

import (
	"bytes"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
)

// SampleSize is the number of leading bytes inspected by Detect.
const SampleSize = 1024

// Candidates are the delimiters Detect can recognize, in tie-break order.
var Candidates = []rune{',', ';', '\t', '|'}

// Detect picks the delimiter whose most common per-line count is non-zero and
// covers at least 90% of the complete sampled lines. Short rows are tolerated:
// with no line above the common count, a strict majority is enough. Quoted
// sections are ignored. When several candidates qualify the one with the most
// occurrences per line wins.
func Detect(sample []byte) (rune, error) {
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return 0, errorz.ErrDelimiterNotDetected
	}

	var (
		best      rune
		bestCount int
	)
	for _, cand := range Candidates {
		count, ok := modalCount(lines, byte(cand))
		if ok && count > bestCount {
			best, bestCount = cand, count
		}
	}
	if bestCount == 0 {
		return 0, errorz.ErrDelimiterNotDetected
	}
	return best, nil
}

// sampleLines splits the sample into non-empty lines. The last line is
// dropped when the sample was cut mid-line.
func sampleLines(sample []byte) [][]byte {
	sample = bytes.TrimPrefix(sample, []byte("\xef\xbb\xbf"))
	truncated := len(sample) == SampleSize && !bytes.HasSuffix(sample, []byte("\n"))

	raw := bytes.Split(sample, []byte("\n"))
	if truncated && len(raw) > 1 {
		raw = raw[:len(raw)-1]
	}

	lines := make([][]byte, 0, len(raw))
	for _, l := range raw {
		l = bytes.TrimRight(l, "\r")
		if len(bytes.TrimSpace(l)) > 0 {
			lines = append(lines, l)
		}
	}
	return lines
}

func modalCount(lines [][]byte, delim byte) (int, bool) {
	freq := make(map[int]int)
	for _, l := range lines {
		freq[countOutsideQuotes(l, delim)]++
	}

	mode, hits := 0, 0
	for n, f := range freq {
		if f > hits || (f == hits && n > mode) {
			mode, hits = n, f
		}
	}
	if mode == 0 {
		return 0, false
	}
	if hits*10 >= len(lines)*9 {
		return mode, true
	}
	for n := range freq {
		if n > mode {
			return 0, false
		}
	}
	return mode, hits*2 > len(lines)
}

func countOutsideQuotes(line []byte, delim byte) int {
	var (
		n      int
		quoted bool
	)
	for _, c := range line {
		switch {
		case c == '"':
			quoted = !quoted
		case c == delim && !quoted:
			n++
		}
	}
	return n
}
