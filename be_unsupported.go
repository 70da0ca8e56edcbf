//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// fantasycore decodes instruction and MMU words with plain shift/mask
// arithmetic assuming a little-endian host; this file exists only to turn
// building on anything else into a compile error instead of a silent bug.
var _ = "fantasycore requires a little-endian architecture" + 1
