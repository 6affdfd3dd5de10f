package match

// maxTokenCells bounds the DP table used for token similarity. Larger inputs
// fall back to multiset overlap, which is linear.
const maxTokenCells = 1 << 20

// maxSiblingCells bounds the DP table used to align child lists. Larger
// lists are aligned greedily after trimming their common ends.
const maxSiblingCells = 1 << 22

// greedyWindow is how far ahead the greedy alignment looks for a partner.
const greedyWindow = 64

// LCS returns index pairs (i, j) of a longest common subsequence of two
// sequences of the given lengths under eq. On ties the earliest elements of
// the first sequence are kept, so a swap of two siblings reports the later
// one as moved. Inputs over maxSiblingCells get a common subsequence that
// is not necessarily the longest.
func LCS(origLen, modLen int, eq func(i, j int) bool) [][2]int {
	return boundedLCS(origLen, modLen, eq, maxSiblingCells)
}

func boundedLCS(origLen, modLen int, eq func(i, j int) bool, limit int) [][2]int {
	if origLen == 0 || modLen == 0 {
		return nil
	}
	if origLen > limit/modLen {
		return greedyLCS(origLen, modLen, eq)
	}

	dp := make([][]int, origLen+1)
	for idx := range dp {
		dp[idx] = make([]int, modLen+1)
	}

	for row := 1; row <= origLen; row++ {
		for col := 1; col <= modLen; col++ {
			if eq(row-1, col-1) {
				dp[row][col] = dp[row-1][col-1] + 1
			} else {
				dp[row][col] = max(dp[row-1][col], dp[row][col-1])
			}
		}
	}

	lcsLen := dp[origLen][modLen]
	if lcsLen == 0 {
		return nil
	}

	pairs := make([][2]int, lcsLen)
	row, col, idx := origLen, modLen, lcsLen-1
	for row > 0 && col > 0 {
		switch {
		case eq(row-1, col-1) && dp[row][col] == dp[row-1][col-1]+1:
			pairs[idx] = [2]int{row - 1, col - 1}
			row--
			col--
			idx--
		case dp[row-1][col] >= dp[row][col-1]:
			row--
		default:
			col--
		}
	}

	return pairs
}

// tokenDistance returns 1 - 2*common/(len(a)+len(b)) where common is the LCS
// length of the token sequences. Two empty sequences are at distance 0.
func tokenDistance(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	if len(a) == 0 || len(b) == 0 {
		return 1
	}

	var common int
	if len(a)*len(b) > maxTokenCells {
		common = bagOverlap(a, b)
	} else {
		common = lcsLength(a, b)
	}
	return 1 - 2*float64(common)/float64(total)
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func bagOverlap(a, b []string) int {
	counts := make(map[string]int, len(a))
	for _, t := range a {
		counts[t]++
	}
	common := 0
	for _, t := range b {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}
	return common
}

// greedyLCS pairs the common prefix and suffix, then walks the middle of
// the first sequence and takes the nearest partner within greedyWindow.
// Memory is linear in the output.
func greedyLCS(origLen, modLen int, eq func(i, j int) bool) [][2]int {
	var head [][2]int
	lo := 0
	for lo < origLen && lo < modLen && eq(lo, lo) {
		head = append(head, [2]int{lo, lo})
		lo++
	}

	var tail [][2]int
	endOrig, endMod := origLen, modLen
	for endOrig > lo && endMod > lo && eq(endOrig-1, endMod-1) {
		endOrig--
		endMod--
		tail = append(tail, [2]int{endOrig, endMod})
	}

	pairs := head
	col := lo
	for row := lo; row < endOrig && col < endMod; row++ {
		for j := col; j < endMod && j < col+greedyWindow; j++ {
			if eq(row, j) {
				pairs = append(pairs, [2]int{row, j})
				col = j + 1
				break
			}
		}
	}
	for i := len(tail) - 1; i >= 0; i-- {
		pairs = append(pairs, tail[i])
	}
	return pairs
}
