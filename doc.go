// Package brotli implements a streaming decoder for the brotli compressed
// data format (RFC 7932).
//
// The core API is the Decoder with its Feed/Pull pair: Feed accepts
// compressed bytes in arbitrary chunks and Pull produces decompressed bytes
// into a caller-supplied buffer, suspending and resuming at any byte
// boundary in either direction. Reader wraps a Decoder in the io.Reader
// interface for the common streaming case.
package brotli

/* Copyright 2016 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/
