package bvh

import (
	"errors"
	"runtime"
	"sort"
	"time"

	"github.com/aethr/lumen/log"
	"github.com/aethr/lumen/scene"
	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

const (
	// DefaultMinLeafItems is the leaf size target used when the caller does
	// not request one.
	DefaultMinLeafItems = 4

	// Force a leaf once a partition gets this deep. The traversal stack is
	// sized off this constant.
	maxPartitionDepth = 48

	// Number of candidate split planes examined per partitioned node.
	splitCandidates = 32
)

// ErrNoPrimitives is returned when building a tree over an empty scene.
var ErrNoPrimitives = errors.New("bvh: cannot build tree without any primitives")

var logger = log.New("bvh")

// workItem caches the bounds and center of a primitive so the builder does
// not have to recalculate them while scoring split candidates.
type workItem struct {
	prim   scene.Primitive
	bounds types.AABB
	center types.Vec3
}

type scoreRequest struct {
	axis       int
	splitPoint float32
	items      []workItem
}

type scoreResult struct {
	splitPoint float32
	score      float32
}

type builder struct {
	minLeafItems int

	nodes []Node
	prims []scene.Primitive

	scoreReqChan chan scoreRequest
	scoreResChan chan scoreResult

	stats Stats
}

// Build constructs a bounding volume hierarchy over the supplied primitive
// list. Primitives are regrouped into contiguous leaf runs; the input slice
// is not modified. Split planes are selected with a surface area heuristic
// along the axis where primitive centers are spread the widest, falling back
// to a median split when no candidate plane separates the items.
func Build(prims []scene.Primitive, minLeafItems int) (*Tree, error) {
	if len(prims) == 0 {
		return nil, ErrNoPrimitives
	}
	if minLeafItems < 1 {
		minLeafItems = DefaultMinLeafItems
	}

	items := make([]workItem, len(prims))
	for i, prim := range prims {
		items[i] = workItem{
			prim:   prim,
			bounds: prim.Bounds(),
			center: prim.Center(),
		}
	}

	b := &builder{
		minLeafItems: minLeafItems,
		nodes:        make([]Node, 0, 2*len(prims)),
		prims:        make([]scene.Primitive, 0, len(prims)),
		scoreReqChan: make(chan scoreRequest, 2*splitCandidates),
		scoreResChan: make(chan scoreResult, 2*splitCandidates),
	}

	// Spin up the pool of split scorers.
	for i := 0; i < runtime.NumCPU(); i++ {
		go b.scoreWorker()
	}

	start := time.Now()
	b.partition(items, 0)
	close(b.scoreReqChan)

	b.stats.Nodes = len(b.nodes)
	b.stats.Primitives = len(b.prims)
	logger.Debugf(
		"built tree with %d nodes (%d leafs, max depth %d) over %d primitives in %d ms",
		b.stats.Nodes,
		b.stats.Leafs,
		b.stats.MaxDepth,
		b.stats.Primitives,
		time.Since(start).Nanoseconds()/1e6,
	)

	return &Tree{
		nodes: b.nodes,
		prims: b.prims,
		stats: b.stats,
	}, nil
}

// Recursively partition the work list generating a node hierarchy. Returns
// the index of the generated node.
func (b *builder) partition(items []workItem, depth int) uint32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	node := Node{}
	bounds := types.NewAABB()
	centroidBounds := types.NewAABB()
	for _, it := range items {
		bounds = bounds.Union(it.bounds)
		centroidBounds = centroidBounds.ExtendPoint(it.center)
	}
	node.SetBBox(bounds.Min, bounds.Max)

	if len(items) <= b.minLeafItems || depth >= maxPartitionDepth {
		return b.createLeaf(&node, items)
	}

	// Split along the axis where the centers are spread the widest.
	extent := centroidBounds.Max.Sub(centroidBounds.Min)
	axis := 0
	if extent[1] > extent[axis] {
		axis = 1
	}
	if extent[2] > extent[axis] {
		axis = 2
	}
	if extent[axis] <= 0 {
		// All centers coincide; no plane can separate the items.
		return b.createLeaf(&node, items)
	}

	// Queue candidate split planes for scoring and keep the cheapest one.
	splitStep := extent[axis] / splitCandidates
	if centroidBounds.Min[axis]+splitStep == centroidBounds.Min[axis] {
		// The extent is below float resolution; the candidate loop cannot
		// advance through it.
		return b.createLeaf(&node, items)
	}
	pendingScores := 0
	for splitPoint := centroidBounds.Min[axis] + splitStep; splitPoint < centroidBounds.Max[axis]; splitPoint += splitStep {
		b.scoreReqChan <- scoreRequest{axis: axis, splitPoint: splitPoint, items: items}
		pendingScores++
	}

	bestScore := float32(math32.MaxFloat32)
	bestSplitPoint := centroidBounds.Min[axis]
	haveSplit := false
	for ; pendingScores > 0; pendingScores-- {
		res := <-b.scoreResChan
		if res.score < bestScore || (res.score == bestScore && haveSplit && res.splitPoint < bestSplitPoint) {
			bestScore = res.score
			bestSplitPoint = res.splitPoint
			haveSplit = bestScore != math32.MaxFloat32
		}
	}
	if !haveSplit {
		bestSplitPoint = medianCenter(items, axis)
	}

	left := make([]workItem, 0, len(items))
	right := make([]workItem, 0, len(items))
	for _, it := range items {
		if it.center[axis] < bestSplitPoint {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return b.createLeaf(&node, items)
	}

	nodeIndex := uint32(len(b.nodes))
	b.nodes = append(b.nodes, node)
	leftIndex := b.partition(left, depth+1)
	rightIndex := b.partition(right, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftIndex, rightIndex)
	return nodeIndex
}

// Create a leaf node, moving its primitives into the next contiguous run of
// the reordered primitive list.
func (b *builder) createLeaf(node *Node, items []workItem) uint32 {
	firstPrimIndex := uint32(len(b.prims))
	for _, it := range items {
		b.prims = append(b.prims, it.prim)
	}
	node.SetPrimitives(firstPrimIndex, uint32(len(items)))

	nodeIndex := uint32(len(b.nodes))
	b.nodes = append(b.nodes, *node)
	b.stats.Leafs++
	return nodeIndex
}

func (b *builder) scoreWorker() {
	for req := range b.scoreReqChan {
		b.scoreResChan <- scoreResult{
			splitPoint: req.splitPoint,
			score:      scorePartition(req),
		}
	}
}

// Score a split candidate using a surface area heuristic. Lower scores
// are better. Candidates leaving one side empty score MaxFloat32 so that
// they are never selected.
func scorePartition(req scoreRequest) float32 {
	var leftCount, rightCount int
	leftBounds := types.NewAABB()
	rightBounds := types.NewAABB()
	for _, it := range req.items {
		if it.center[req.axis] < req.splitPoint {
			leftCount++
			leftBounds = leftBounds.Union(it.bounds)
		} else {
			rightCount++
			rightBounds = rightBounds.Union(it.bounds)
		}
	}
	if leftCount == 0 || rightCount == 0 {
		return math32.MaxFloat32
	}

	return float32(leftCount)*leftBounds.SurfaceArea() + float32(rightCount)*rightBounds.SurfaceArea()
}

func medianCenter(items []workItem, axis int) float32 {
	centers := make([]float32, len(items))
	for i, it := range items {
		centers[i] = it.center[axis]
	}
	sort.Slice(centers, func(i, j int) bool { return centers[i] < centers[j] })
	return centers[len(centers)/2]
}
