// Package compute provides escape-grid evaluation backends.
//
// Every backend implements [Backend.EvaluateGrid], so the render engine's
// pixel mapping and palette lookup are shared across hardware:
//
//   - CPU: rows split across goroutines, one local histogram per worker
//   - CUDA: one GPU thread per pixel, histogram reduced on the host
//
// # Selection
//
//	backend, err := compute.Select("auto")
//	grid, err := backend.EvaluateGrid(ctx, view, width, height, fidelity)
//
// Build with CUDA support:
//
//	go build -tags cuda ./...
//
// The kernel library (libkernels) must sit next to this package. Without the
// tag, the CUDA backend reports itself unavailable and falls back to the CPU.
package compute
