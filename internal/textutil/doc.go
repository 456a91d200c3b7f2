// Package textutil provides text helpers for deriving stable, filesystem-safe
// output names.
//
// Slugify reduces free-form identifiers (set names, line keys) to lowercase
// tokens made of letters, digits, dots, underscores and hyphens. ShortHash
// fingerprints line text so that editing a line yields a new derived file
// name rather than silently reusing stale audio.
package textutil
