// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package cram implements the write-side of a CRAM slicing and
// container pipeline: deciding how a stream of aligned records is
// partitioned into slices and containers, resolving mate-pair
// relationships within a slice, serializing slice headers in CRAM's
// binary wire format, and producing per-slice index entries suitable
// for BAI assembly.
//
// This package does not decode CRAM, does not implement random-access
// readers, and does not implement the underlying compressed block
// framing, compression-header construction, reference-sequence
// lookup, or record-level base/quality encoding; those are external
// collaborators described by the interfaces in collaborators.go.
package cram
