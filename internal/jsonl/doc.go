// Package jsonl reads JSON Lines annotation files.
//
// A Reader yields one Line per non-blank input line. Each line is decoded
// on its own with numbers kept as json.Number, so integer and float
// values stay distinguishable for shape matching. A line that fails to
// decode is returned with Err set instead of stopping the scan.
//
// Open transparently decompresses xz and gzip input, detected from the
// leading magic bytes rather than the file extension, and strips a byte
// order mark. Size and Digest describe the bytes as stored on disk.
package jsonl
