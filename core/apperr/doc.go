// Package apperr defines the error taxonomy shared by every feature.
//
// Services return one of four typed errors so the HTTP layer can translate
// them without inspecting driver messages:
//
//   - ValidationError: malformed input, always raised before any write.
//   - NotFoundError: a referenced recipe, catalog item or listing is missing.
//   - ConflictError: a uniqueness constraint would be violated.
//   - StorageError: any lower-level database or transaction failure.
//
// # Usage
//
//	if err := svc.Merge(ctx, 5, 7); err != nil {
//	    return apperr.Write(c, l, err)
//	}
package apperr
