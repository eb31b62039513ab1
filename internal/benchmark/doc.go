// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a module lookup:
//   - configuration parsing and registry restore
//   - locator parsing
//   - top-level and relative resolution across directory and archive repositories
//   - source reads and the per-execution module cache
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -bench . -cpuprofile default.pgo
package benchmark
