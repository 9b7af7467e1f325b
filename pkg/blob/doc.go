// Package blob stores opaque file contents under flat keys.
//
// A Storage writes bytes under a key and hands back a locator, the value that
// gets persisted next to the file's metadata and later passed to Get. For
// LocalStorage the locator is the absolute path on disk; for S3Storage it is
// the object key. Locate computes the locator for a key without touching the
// backend, which is how sibling blobs such as image derivatives are found.
//
// Keys must be a single path element: no separators, no "..".
//
//	store, err := blob.New(ctx, cfg)
//	loc, err := store.Put(ctx, uuid.NewString(), data)
//	data, err := store.Get(ctx, loc)
package blob
