// Package jsonbind binds JSON documents into typed Go values without giving up
// at the first bad field.
//
//   - Presence: for a case-insensitive set of watched names, Bind records which
//     top-level members occur in the input, whether or not their values convert.
//   - Continuation: every field-level conversion failure is recorded under a
//     canonical path key (first failure per key wins) and population moves on
//     to the next field.
//   - Error model: failures come back together as a *BindError, renderable as a
//     flat {"path": "message"} JSON object; failures whose message is not known
//     to be safe abort with a distinct *OpaqueError.
//
// Design policy:
//   - Keep only public APIs in the root package; tokenizing, tree building and
//     reflective population live under internal/.
//   - Drivers live under source/, the HTTP adapter under middleware/ and the CLI
//     under cmd/jsonbind.
//
// Typical usage:
//
//	type Settings struct {
//		SortOrder int `json:"sortOrder"`
//	}
//	type Request struct {
//		EditSettings Settings `json:"editSettings" jsonbind:"watch"`
//	}
//
//	b := jsonbind.New[Request](jsonbind.BindOpt{Watch: []string{"matchingProp1"}})
//	dm, err := b.Bind(ctx, body)
//	if be, ok := jsonbind.AsBindError(err); ok {
//		out, _ := be.MarshalJSON() // {"editSettings.sortOrder": "..."}
//	}
package jsonbind
