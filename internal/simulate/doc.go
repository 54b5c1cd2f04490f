// Package simulate runs many dialogues and summarizes how they end.
//
// Each run gets its own random stream derived from the base seed and the run
// index, so a batch is reproducible regardless of parallelism.
package simulate
