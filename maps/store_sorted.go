// Sorted backing store: a red-black tree ordered by Key.Compare, which gives
// case-insensitive collation for textual keys and places them before every
// other key kind. The tree enforces the usual red-black properties:
//  1. Every node is either red or black
//  2. The root is always black
//  3. All leaves (nil nodes) are considered black
//  4. Red nodes cannot have red children
//  5. Every path from root to leaf contains the same number of black nodes
//
// These properties keep the tree approximately balanced, guaranteeing
// O(log n) insertions, deletions, and lookups.
package maps

import "iter"

// color represents the color of a red-black tree node.
type color bool

// direction indicates the relationship of a node to its parent.
type direction byte

const (
	// Black is represented as true so a zero-valued node defaults to black.
	black, red color = true, false

	left direction = iota
	right
	nodir
)

// sortedNode is a single node of the sorted store's tree. The key is replaced
// in place on overwrite so the most recently written casing wins without
// disturbing the node's position (equal keys occupy the same slot).
type sortedNode[V any] struct {
	key    Key
	value  V
	color  color
	left   *sortedNode[V]
	right  *sortedNode[V]
	parent *sortedNode[V]
}

// sortedStore implements store on a red-black tree. It performs no hashing:
// keys are located by three-way comparison, so ErrHashCollision cannot occur
// and opaque keys of any comparable type are accepted.
type sortedStore[V any] struct {
	root *sortedNode[V]
	size int
}

func newSortedStore[V any]() *sortedStore[V] {
	return &sortedStore[V]{}
}

// lookup descends from this toward key, tracking the prospective parent node
// and the direction at each step. Used for both reads and insertions.
func (t *sortedStore[V]) lookup(
	parent, this *sortedNode[V], key Key, dir direction,
) (bool, *sortedNode[V], direction) {
	switch {
	case this == nil:
		return false, parent, dir
	case key.Equals(this.key):
		return true, parent, dir
	case key.Compare(this.key) < 0:
		return t.lookup(this, this.left, key, left)
	default:
		return t.lookup(this, this.right, key, right)
	}
}

// node retrieves the tree node holding the given key, if present.
func (t *sortedStore[V]) node(key Key) (*sortedNode[V], bool) {
	found, parent, dir := t.lookup(nil, t.root, key, nodir)
	if !found {
		return nil, false
	}

	if parent == nil {
		return t.root, true
	}

	var n *sortedNode[V]

	switch dir {
	case left:
		n = parent.left
	case right:
		n = parent.right
	case nodir:
	}

	if n == nil {
		return nil, false
	}

	return n, true
}

func (t *sortedStore[V]) Get(key Key) (V, bool, error) {
	var zero V

	if err := key.checkStorable(); err != nil {
		return zero, false, err
	}

	if n, ok := t.node(key); ok {
		return n.value, true, nil
	}

	return zero, false, nil
}

func (t *sortedStore[V]) Put(key Key, value V) (V, bool, error) {
	var zero V

	if err := key.checkStorable(); err != nil {
		return zero, false, err
	}

	if t.root == nil {
		t.root = &sortedNode[V]{key: key, color: black, value: value}
		t.size = 1

		return zero, false, nil
	}

	found, parent, dir := t.lookup(nil, t.root, key, nodir)
	if found {
		target := t.root

		if parent != nil {
			switch dir {
			case left:
				target = parent.left
			case right:
				target = parent.right
			case nodir:
			}
		}

		prev := target.value
		// Replace the key too: an equal key may carry different casing.
		target.key = key
		target.value = value

		return prev, true, nil
	}

	if parent == nil {
		return zero, false, nil
	}

	newNode := &sortedNode[V]{key: key, parent: parent, value: value}

	switch dir {
	case left:
		parent.left = newNode
	case right:
		parent.right = newNode
	case nodir:
	}

	t.size++
	t.fixupPut(newNode)

	return zero, false, nil
}

// Delete removes the entry for key using the standard CLRS deletion with a
// rebalancing fixup afterwards.
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *sortedStore[V]) Delete(key Key) (V, bool, error) {
	var zero V

	if err := key.checkStorable(); err != nil {
		return zero, false, err
	}

	z, ok := t.node(key)
	if !ok {
		return zero, false, nil
	}

	prev := z.value
	y := z
	yOriginalColor := y.color

	// x is the node moving into y's old slot; it may be nil, so its parent
	// is tracked separately for the fixup.
	var x, xParent *sortedNode[V]

	switch {
	case z.left == nil:
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	case z.right == nil:
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	default:
		y = t.minimum(z.right)
		yOriginalColor = y.color
		x = y.right

		if y.parent == z {
			xParent = y

			if x != nil {
				x.parent = y
			}
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}

		t.transplant(z, y)

		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		t.fixupDelete(x, xParent)
	}

	t.size--

	return prev, true, nil
}

func (t *sortedStore[V]) Contains(key Key) (bool, error) {
	if err := key.checkStorable(); err != nil {
		return false, err
	}

	found, _, _ := t.lookup(nil, t.root, key, nodir)

	return found, nil
}

func (t *sortedStore[V]) Len() int {
	return t.size
}

func (t *sortedStore[V]) Clear() {
	t.root = nil
	t.size = 0
}

// Seq iterates entries in sorted key order via in-order traversal.
func (t *sortedStore[V]) Seq() iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		t.inorder(t.root, yield)
	}
}

func (t *sortedStore[V]) inorder(n *sortedNode[V], yield func(Key, V) bool) bool {
	if n == nil {
		return true
	}

	if !t.inorder(n.left, yield) {
		return false
	}

	if !yield(n.key, n.value) {
		return false
	}

	return t.inorder(n.right, yield)
}

// transplant replaces the subtree rooted at node u with the subtree rooted
// at node v. Helper for deletion.
func (t *sortedStore[V]) transplant(u, v *sortedNode[V]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}

	if v != nil {
		v.parent = u.parent
	}
}

// minimum returns the leftmost node of the subtree rooted at x.
func (t *sortedStore[V]) minimum(x *sortedNode[V]) *sortedNode[V] {
	for x.left != nil {
		x = x.left
	}

	return x
}

// rotateRight performs a right rotation around node y:
//
//	    y              x
//	   / \            / \
//	  x   C   =>     A   y
//	 / \                / \
//	A   B              B   C
//
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *sortedStore[V]) rotateRight(y *sortedNode[V]) {
	if y == nil || y.left == nil {
		return
	}

	x := y.left
	y.left = x.right

	if x.right != nil {
		x.right.parent = y
	}

	x.parent = y.parent

	switch {
	case y.parent == nil:
		t.root = x
	case y == y.parent.left:
		y.parent.left = x
	default:
		y.parent.right = x
	}

	x.right = y
	y.parent = x
}

// rotateLeft performs a left rotation around node x:
//
//	  x                y
//	 / \              / \
//	A   y      =>    x   C
//	   / \          / \
//	  B   C        A   B
//
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *sortedStore[V]) rotateLeft(x *sortedNode[V]) {
	if x == nil || x.right == nil {
		return
	}

	y := x.right
	x.right = y.left

	if y.left != nil {
		y.left.parent = x
	}

	y.parent = x.parent

	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}

	y.left = x
	x.parent = y
}

// isRed reports whether a node is red; nil nodes are black by convention.
func isRed[V any](n *sortedNode[V]) bool {
	if n == nil {
		return false
	}

	return n.color == red
}

// fixupPut restores the red-black properties after inserting a new red node,
// recoloring and rotating up the tree until no violation remains.
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *sortedStore[V]) fixupPut(z *sortedNode[V]) {
loop:
	for {
		switch {
		case z.parent == nil:
			fallthrough
		case z.parent.color == black:
			break loop
		case z.parent.color == red:
			grandparent := z.parent.parent
			if z.parent == grandparent.left { //nolint:nestif // Red-black tree algorithm complexity
				y := grandparent.right
				if isRed(y) {
					z.parent.color = black
					y.color = black
					grandparent.color = red
					z = grandparent
				} else {
					if z == z.parent.right {
						z = z.parent
						t.rotateLeft(z)
					}

					z.parent.color = black
					grandparent.color = red
					t.rotateRight(grandparent)
				}
			} else {
				y := grandparent.left
				if isRed(y) {
					z.parent.color = black
					y.color = black
					grandparent.color = red
					z = grandparent
				} else {
					if z == z.parent.left {
						z = z.parent
						t.rotateRight(z)
					}

					z.parent.color = black
					grandparent.color = red
					t.rotateLeft(grandparent)
				}
			}
		}
	}

	t.root.color = black
}

// fixupDelete restores the red-black properties after deleting a black node,
// which can unbalance black-heights. Cases follow the sibling's color and
// children, per CLRS. x may be nil (a leaf slot), so its parent is passed in
// rather than read from the node; nil nodes count as black.
// nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *sortedStore[V]) fixupDelete(x, parent *sortedNode[V]) {
	for x != t.root && !isRed(x) && parent != nil {
		if x == parent.left {
			w := parent.right
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}

			if w == nil {
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x, parent = parent, parent.parent
			} else {
				if !isRed(w.right) {
					if w.left != nil {
						w.left.color = black
					}

					w.color = red
					t.rotateRight(w)
					w = parent.right
				}

				w.color = parent.color
				parent.color = black

				if w.right != nil {
					w.right.color = black
				}

				t.rotateLeft(parent)
				x, parent = t.root, nil
			}
		} else {
			w := parent.left
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}

			if w == nil {
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x, parent = parent, parent.parent
			} else {
				if !isRed(w.left) {
					if w.right != nil {
						w.right.color = black
					}

					w.color = red
					t.rotateLeft(w)
					w = parent.left
				}

				w.color = parent.color
				parent.color = black

				if w.left != nil {
					w.left.color = black
				}

				t.rotateRight(parent)
				x, parent = t.root, nil
			}
		}
	}

	if x != nil {
		x.color = black
	}
}
