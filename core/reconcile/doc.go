// Package reconcile provides the generic bookkeeping used to keep an ordered
// auxiliary array consistent with a relational set that has no guaranteed order.
//
// A recipe stores its ingredients as a many-to-many association and, separately,
// an array of free-text quantities whose positions must follow the association
// as the store returns it. The store may hand the association back in any order,
// so the array is rebuilt from a fresh read rather than zipped with the submission.
//
// # Components
//
//  1. Realign: rebuilds values to follow a persisted key order, matching each key
//     back to the position it had in the submission.
//
//  2. Unique / Substitute: set arithmetic over ordered key slices (first seen wins).
//
//  3. Group: coalesces concurrent calls sharing a key so that duplicate find-or-create
//     requests in one process hit the store once.
//
// # Usage Example
//
//	ids := reconcile.Unique(resolved)
//	// ... rewrite the association, read it back as persisted ...
//	quantities := reconcile.Realign(resolved, submittedQuantities, persisted)
package reconcile
