// Package ports defines the interfaces between the engine, its definition
// sources, and its persistence backends. Adapters implement them; hosts
// depend on them.
package ports
