// Package catalog reads, writes and generates item catalogs together with the
// criteria orders of the agents that argue over them.
//
// Three on-disk formats are supported:
//
//   - a YAML document with items and agents
//   - a values CSV with rows of item,criterion_name,value[,description]
//   - a directory holding values.csv and one <agent>/criteria.csv per agent
//     with rows of rank,criterion_name
//
// A Watcher reloads a catalog whenever its files change.
package catalog
