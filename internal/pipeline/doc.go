// Package pipeline runs correction over a list of long-read IDs: the IDs are
// split round-robin into fixed shards, each shard is worked by one goroutine
// with its own Corrector, and finished reads are handed to an emit callback.
//
// The only contract to implement is Corrector (Correct).
package pipeline
