package depthlimit

import "testing"

func TestLimitChainDepthTwo(t *testing.T) {
	t.Parallel()
	// A(0) -> B(1) -> C(2) root
	ancestor := []int{1, 2, -1}
	Limit(ancestor, 1)

	if ancestor[0] != 2 {
		t.Fatalf("A's ancestor = %d, want 2 (re-rooted directly to C)", ancestor[0])
	}
	if ancestor[1] != 2 {
		t.Fatalf("B's ancestor = %d, want 2 (unchanged)", ancestor[1])
	}
	if ancestor[2] != -1 {
		t.Fatalf("C's ancestor = %d, want -1 (root untouched)", ancestor[2])
	}
}

func TestLimitNoRedirectNeeded(t *testing.T) {
	t.Parallel()
	ancestor := []int{1, 2, -1}
	want := []int{1, 2, -1}
	Limit(ancestor, 5)
	for i := range ancestor {
		if ancestor[i] != want[i] {
			t.Fatalf("ancestor[%d] = %d, want %d (depth within limit)", i, ancestor[i], want[i])
		}
	}
}

func TestLimitResultingChainsRespectBound(t *testing.T) {
	t.Parallel()
	// a chain of 10: 0 -> 1 -> 2 -> ... -> 9 (root)
	n := 10
	ancestor := make([]int, n)
	for i := 0; i < n-1; i++ {
		ancestor[i] = i + 1
	}
	ancestor[n-1] = -1

	const limit = 3
	Limit(ancestor, limit)

	for i := 0; i < n; i++ {
		depth := 0
		x := i
		for ancestor[x] != -1 {
			x = ancestor[x]
			depth++
			if depth > n {
				t.Fatalf("cycle detected starting at %d", i)
			}
		}
		if depth > limit {
			t.Fatalf("node %d has chain depth %d, want <= %d", i, depth, limit)
		}
	}
}

func TestLimitForestSharedAncestors(t *testing.T) {
	t.Parallel()
	// two leaves sharing the same deep chain: 0 -> 2 -> 3 -> 4(root), 1 -> 2
	ancestor := []int{2, 2, 3, 4, -1}
	Limit(ancestor, 1)

	for i := 0; i < len(ancestor); i++ {
		if i == 4 {
			continue
		}
		depth := 0
		x := i
		for ancestor[x] != -1 {
			x = ancestor[x]
			depth++
		}
		if depth > 1 {
			t.Fatalf("node %d has depth %d, want <= 1", i, depth)
		}
	}
}
