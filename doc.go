// Copyright (c) 2025 The hcs authors
// SPDX-License-Identifier: MIT

// Package hcs provides a Hierarchical Color-Set (HCS) representation
// for a large collection of sorted integer sets — the color sets of a
// colored de Bruijn graph, or any other domain's sorted sets over a
// shared universe.
//
// An HCS stores each input set one of three ways, whichever is
// cheapest: as a dense characteristic bitmap, as a sparse list of
// element values, or as a selector bitmap over a larger set it is
// known to be a subset of. [New] runs the full pipeline — parent
// discovery, depth limiting, layout planning, and assembly — over a
// batch of sets; [HCS.Extract] decodes a single set back out in
// sorted order.
//
// The structure is immutable once built: there is no insert, delete,
// or update, no approximate or probabilistic query, and no
// concurrency within a single Extract call, though many goroutines
// may call Extract on the same HCS concurrently.
package hcs
