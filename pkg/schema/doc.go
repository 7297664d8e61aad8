// Package schema defines the declarative skill definition document and its
// validator.
//
// The schema is embedded in the binary as a hand-written validator rather
// than an external schema file, so every structural problem in a definition
// can be collected and reported in a single pass.
package schema
