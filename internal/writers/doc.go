// Package writers turns a finished build into serialized outputs.
//
// Writers own all presentation knowledge (PHYLIP, TSV, JSON/JSONL, Newick,
// aligned FASTA). The pipeline stays orchestration-only; JSON goes through
// pkg/api (v1) for a stable wire format.
package writers
