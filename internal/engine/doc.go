// Package engine contains the graph search core: neighbour queries over the
// short-read index, tip extension and seed-to-seed linking. It never imports
// app, writers, cli, or pipeline; keep it domain-only.
//
// External outputs must not depend on the internal shape here; use pkg/api
// for stable wire types (JSON/JSONL v1).
package engine
