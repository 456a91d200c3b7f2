// Package manifest loads YAML voice-line manifests and resolves them into
// jobs.
//
// A manifest carries manifest-wide defaults, an optional flat list of lines
// and an ordered list of named sets. Parameters merge from built-in defaults
// through manifest defaults and set defaults down to each line; prompt and
// output blocks merge field by field. Every structural or parameter problem
// is reported as a services.ErrConfiguration error before any vendor call is
// made.
package manifest
