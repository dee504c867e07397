package bvh

import (
	"github.com/aethr/lumen/scene"
	"github.com/aethr/lumen/types"
)

// Bvh nodes are comprised of two Vec3 bounds and two multipurpose int32
// parameters whose value depends on the node type:
//
// - For non-leaf nodes both are > 0 and point to the L/R child nodes.
// - For leaf nodes LData is <= 0 and encodes the negated index of the first
//   primitive in the reordered primitive list while RData contains the count
//   of leaf primitives.
//
// The root always occupies slot 0 so a child index can never be 0 and the
// sign test is unambiguous.
type Node struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set bounding box.
func (n *Node) SetBBox(min, max types.Vec3) {
	n.Min = min
	n.Max = max
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Set primitive index and count.
func (n *Node) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *Node) GetPrimitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Check whether the node is a leaf.
func (n *Node) Leaf() bool {
	return n.LData <= 0
}

// Tree build statistics.
type Stats struct {
	Nodes      int
	Leafs      int
	MaxDepth   int
	Primitives int
}

// Tree is an immutable bounding volume hierarchy over a scene's primitives.
// It owns a reordered copy of the primitive list; leaves reference contiguous
// index ranges into it.
type Tree struct {
	nodes []Node
	prims []scene.Primitive
	stats Stats
}

func (t *Tree) Stats() Stats {
	return t.stats
}

// Bounds returns the bounding box of the entire hierarchy.
func (t *Tree) Bounds() types.AABB {
	if len(t.nodes) == 0 {
		return types.NewAABB()
	}
	return types.AABB{Min: t.nodes[0].Min, Max: t.nodes[0].Max}
}

// Find the nearest primitive hit along the ray inside (tMin, tMax). The hit
// record is only valid when the method returns true.
func (t *Tree) Intersect(r types.Ray, tMin, tMax float32, hit *scene.Hit) bool {
	if r.Degenerate() || len(t.nodes) == 0 {
		return false
	}

	var stack [maxPartitionDepth + 2]int32
	stack[0] = 0
	sp := 1

	found := false
	closest := tMax
	for sp > 0 {
		sp--
		node := &t.nodes[stack[sp]]
		box := types.AABB{Min: node.Min, Max: node.Max}
		if !box.Hit(r, tMin, closest) {
			continue
		}

		if node.Leaf() {
			first, count := node.GetPrimitives()
			for i := first; i < first+count; i++ {
				if t.prims[i].Intersect(r, tMin, closest, hit) {
					found = true
					closest = hit.T
				}
			}
			continue
		}

		stack[sp] = node.LData
		stack[sp+1] = node.RData
		sp += 2
	}
	return found
}

// Check for any primitive hit inside (tMin, tMax) without searching for the
// nearest one.
func (t *Tree) IntersectP(r types.Ray, tMin, tMax float32) bool {
	if r.Degenerate() || len(t.nodes) == 0 {
		return false
	}

	var stack [maxPartitionDepth + 2]int32
	stack[0] = 0
	sp := 1

	var hit scene.Hit
	for sp > 0 {
		sp--
		node := &t.nodes[stack[sp]]
		box := types.AABB{Min: node.Min, Max: node.Max}
		if !box.Hit(r, tMin, tMax) {
			continue
		}

		if node.Leaf() {
			first, count := node.GetPrimitives()
			for i := first; i < first+count; i++ {
				if t.prims[i].Intersect(r, tMin, tMax, &hit) {
					return true
				}
			}
			continue
		}

		stack[sp] = node.LData
		stack[sp+1] = node.RData
		sp += 2
	}
	return false
}
