package task

import "fmt"

// PathDistance returns the number of edges on the tree path between the
// tokens at 0-based positions i and j.
//
// heads holds the normalized head indices of the sentence: heads[k] is the
// 1-based index of the head of token k, 0 for the virtual root. The root is
// itself a node, so two tokens attached to the root are 2 edges apart.
//
// Both tokens walk toward the root one step at a time. The walk stops at
// the first node one frontier reaches that the other path already holds,
// or when both frontiers land on the same new node.
//
// Either token must reach the root within len(heads) steps. A token on a
// cycle, or hanging from one, fails with ErrMalformedAnnotation, even when
// both tokens sit on the same cycle.
func PathDistance(heads []int, i, j int) (int, error) {
	n := len(heads)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("%w: (%d, %d) in sentence of %d tokens", ErrIndexOutOfRange, i, j, n)
	}

	if err := reachesRoot(heads, i); err != nil {
		return 0, err
	}
	if err := reachesRoot(heads, j); err != nil {
		return 0, err
	}

	return pathDistance(heads, i, j)
}

// pathDistance walks the paths of i and j, both known to reach the root.
func pathDistance(heads []int, i, j int) (int, error) {
	if i == j {
		return 0, nil
	}

	iPath := []int{i + 1}
	jPath := []int{j + 1}
	iHead, jHead := i+1, j+1

	var err error
	for {
		// A path whose frontier is the root is complete. The starting node
		// is never the root, so the first step is always taken.
		if iHead != 0 {
			iHead, iPath, err = step(heads, iHead, iPath)
			if err != nil {
				return 0, err
			}
		}

		if jHead != 0 {
			jHead, jPath, err = step(heads, jHead, jPath)
			if err != nil {
				return 0, err
			}
		}

		if k := indexOf(jPath, iHead); k >= 0 {
			return k + len(iPath) - 1, nil
		}

		if k := indexOf(iPath, jHead); k >= 0 {
			return k + len(jPath) - 1, nil
		}

		if iHead == jHead {
			return len(iPath) - 1 + len(jPath) - 1, nil
		}
	}
}

// Rooted returns ErrMalformedAnnotation unless every token of heads
// reaches the root, so the heads form a tree.
func Rooted(heads []int) error {
	for k := range heads {
		if err := reachesRoot(heads, k); err != nil {
			return err
		}
	}
	return nil
}

// reachesRoot follows the heads of the token at 0-based position k. A
// valid tree reaches 0 in at most len(heads) steps.
func reachesRoot(heads []int, k int) error {
	n := len(heads)
	node := k + 1
	for steps := 0; node != 0; steps++ {
		if steps == n {
			return fmt.Errorf("%w: token %d does not reach the root", ErrMalformedAnnotation, k+1)
		}

		head := heads[node-1]
		if head < 0 || head > n {
			return fmt.Errorf("%w: token %d has head %d outside [0, %d]", ErrMalformedAnnotation, node, head, n)
		}
		node = head
	}
	return nil
}

// step appends the head of frontier to path.
func step(heads []int, frontier int, path []int) (int, []int, error) {
	n := len(heads)

	// n steps reach the root from the deepest token of a valid tree
	if len(path) > n {
		return 0, nil, fmt.Errorf("%w: token %d does not reach the root in %d steps", ErrMalformedAnnotation, path[0], n)
	}

	head := heads[frontier-1]
	if head < 0 || head > n {
		return 0, nil, fmt.Errorf("%w: token %d has head %d outside [0, %d]", ErrMalformedAnnotation, frontier, head, n)
	}

	return head, append(path, head), nil
}

func indexOf(path []int, node int) int {
	for k, v := range path {
		if v == node {
			return k
		}
	}
	return -1
}
