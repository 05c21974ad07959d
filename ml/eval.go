package ml

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/katalvlaran/xlranker/rng"
)

// StratifiedKFold splits sample indices into k folds that keep the class
// ratio of labels. Each class is shuffled with r, then dealt round-robin,
// with the deal position carried over between classes so fold sizes differ
// by at most one. Returned folds hold held-out indices, sorted.
//
// Complexity: O(n log n).
func StratifiedKFold(labels []float64, k int, r *rand.Rand) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: folds=%d", ErrInvalidConfig, k)
	}
	var pos, neg []int
	for i, y := range labels {
		if y > 0.5 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	folds := make([][]int, k)
	next := 0
	for _, class := range [][]int{pos, neg} {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] }, r)
		for _, idx := range class {
			folds[next] = append(folds[next], idx)
			next = (next + 1) % k
		}
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds, nil
}

// complement returns the indices in [0, n) that are not in held (sorted).
func complement(n int, held []int) []int {
	out := make([]int, 0, n-len(held))
	h := 0
	for i := 0; i < n; i++ {
		if h < len(held) && held[h] == i {
			h++
			continue
		}
		out = append(out, i)
	}
	return out
}

// AUC returns the area under the ROC curve of scores against labels ∈ {0,1},
// computed from average ranks so tied scores count one half.
//
// Complexity: O(n log n).
func AUC(scores, labels []float64) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("%w: %d scores, %d labels", ErrLabelMismatch, len(scores), len(labels))
	}
	n := len(scores)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[idx[j+1]] == scores[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for t := i; t <= j; t++ {
			ranks[idx[t]] = avg
		}
		i = j + 1
	}

	var nPos, nNeg int
	var rankSum float64
	for i, y := range labels {
		if y > 0.5 {
			nPos++
			rankSum += ranks[i]
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, ErrSingleClass
	}
	u := rankSum - float64(nPos*(nPos+1))/2
	return u / float64(nPos*nNeg), nil
}
