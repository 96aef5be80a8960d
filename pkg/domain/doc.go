// Package domain holds the core types of the phenotype model: the
// multi-compartment cell volume, phase and phenotype specifications, the
// closed set of transition rules, step results, and lifecycle events.
//
// The types here carry no execution logic beyond pure queries; the state
// machine itself lives in the engine.
package domain
