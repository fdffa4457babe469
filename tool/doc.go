// Package tool provides a registry of typed, schema-described tools and the
// household-spending tool set built on the ssb data layer.
//
// Tools are registered with a JSON Schema generated from a Go argument
// struct, so the definitions handed to a model and the decoding of its
// arguments cannot drift apart:
//
//	registry := tool.NewRegistry().Add(tool.SpendingTools(store)...)
//	obs, err := registry.Execute(ctx, call)
//
// Execute returns an Observation on success and an error otherwise; deciding
// whether a failed call ends the run or is shown to the model as an error
// observation is the caller's policy.
package tool
