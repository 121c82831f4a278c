package pdf417

import "math"

const (
	modulesPerCodeword = 17

	maxAvgVariance        = 0.42
	maxIndividualVariance = 0.8

	// widthTolerance is how far a codeword may drift from the width of the
	// one before it, as a fraction of that width.
	widthTolerance = 0.25
)

var (
	startPattern = []int{8, 1, 1, 1, 1, 1, 1, 3}
	stopPattern  = []int{7, 1, 1, 3, 1, 1, 1, 2, 1}
)

type codeword struct {
	value   int
	cluster int
}

var lookup = func() map[uint32]codeword {
	m := make(map[uint32]codeword, 3*len(clusterPatterns[0]))

	for cluster, table := range clusterPatterns {
		for value, pattern := range table {
			m[pattern] = codeword{value: value, cluster: cluster}
		}
	}

	return m
}()

type run struct {
	start int
	width int
	black bool
}

func runsOf(bits []bool) []run {
	var runs []run

	for x := 0; x < len(bits); {
		start, black := x, bits[x]
		for x < len(bits) && bits[x] == black {
			x++
		}

		runs = append(runs, run{start: start, width: x - start, black: black})
	}

	return runs
}

func span(runs []run) int {
	total := 0
	for _, r := range runs {
		total += r.width
	}

	return total
}

// patternVariance scores how far runs are from pattern once scaled to the
// same total width. Lower is closer; +Inf rejects the match outright.
func patternVariance(runs []run, pattern []int) float64 {
	total, size := span(runs), 0
	for _, p := range pattern {
		size += p
	}

	if total < size {
		return math.Inf(1)
	}

	unit := float64(total) / float64(size)
	maxVariance := maxIndividualVariance * unit

	var sum float64

	for i, r := range runs {
		v := math.Abs(float64(r.width) - float64(pattern[i])*unit)
		if v > maxVariance {
			return math.Inf(1)
		}

		sum += v
	}

	return sum / float64(total)
}

// sample reads the 17 modules of a codeword at evenly spaced centres across
// its eight runs.
func sample(runs []run, width int) uint32 {
	var (
		bits uint32
		k    int
	)

	start := float64(runs[0].start)
	module := float64(width) / modulesPerCodeword

	for m := range modulesPerCodeword {
		pos := start + (float64(m)+0.5)*module
		for k < len(runs)-1 && float64(runs[k].start+runs[k].width) <= pos {
			k++
		}

		bits <<= 1
		if runs[k].black {
			bits |= 1
		}
	}

	return bits
}

// rowRead is what one scanline yields after a start pattern: the codewords of
// a single symbol row, left row indicator first.
type rowRead struct {
	cluster  int
	values   []int
	stopSeen bool
}

// scanLine finds every start pattern in bits and reads codewords after it
// until one is unreadable or belongs to another cluster, which means the
// scanline crossed into a neighbouring row.
func scanLine(bits []bool) []rowRead {
	runs := runsOf(bits)

	var reads []rowRead

	for i := 0; i+len(startPattern) <= len(runs); {
		if !runs[i].black || patternVariance(runs[i:i+len(startPattern)], startPattern) >= maxAvgVariance {
			i++
			continue
		}

		module := float64(span(runs[i:i+len(startPattern)])) / modulesPerCodeword
		read := rowRead{cluster: -1}
		j := i + len(startPattern)

		for j+8 <= len(runs) && runs[j].black {
			width := span(runs[j : j+8])
			expected := modulesPerCodeword * module

			if math.Abs(float64(width)-expected) > widthTolerance*expected {
				break
			}

			cw, ok := lookup[sample(runs[j:j+8], width)]
			if !ok {
				break
			}

			if read.cluster == -1 {
				read.cluster = cw.cluster
			} else if cw.cluster != read.cluster {
				break
			}

			read.values = append(read.values, cw.value)
			module = float64(width) / modulesPerCodeword
			j += 8
		}

		if j+len(stopPattern) <= len(runs) && runs[j].black &&
			patternVariance(runs[j:j+len(stopPattern)], stopPattern) < maxAvgVariance {
			read.stopSeen = true
		}

		if len(read.values) >= 2 || (len(read.values) == 1 && read.stopSeen) {
			reads = append(reads, read)
		}

		i = j
	}

	return reads
}
