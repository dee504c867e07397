package tracer

// mix64 applies a splitmix64-style finalizer to spread seed bits.
func mix64(v uint64) uint64 {
	v ^= v >> 30
	v *= 0xbf58476d1ce4e5b9
	v ^= v >> 27
	v *= 0x94d049bb133111eb
	v ^= v >> 31
	return v
}

// PixelSeed derives the seed for a single sample of a single pixel. The seed
// depends only on the global seed, the pixel location and the sample index,
// never on the worker tracing the pixel, so frames come out identical no
// matter how the work gets scheduled.
func PixelSeed(globalSeed uint64, x, y, sample uint32) uint64 {
	h := mix64(globalSeed ^ (uint64(y)<<32 | uint64(x)))
	return mix64(h ^ uint64(sample))
}
