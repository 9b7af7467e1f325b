// Package files implements the file metadata tree and the operations users
// perform on it: upload, show, list, publish/unpublish and content retrieval.
//
// Every user owns a forest of FileNode records. A node is either a folder or a
// leaf (file or image). Leaves point at a blob written through blob.Storage;
// images additionally get resized derivatives produced asynchronously by a
// Dispatcher consumer and stored under DerivativeKey(fileID, width).
//
// # Not found vs. forbidden
//
// ErrNotFound is returned both when a node does not exist and when the caller
// is not allowed to see it. Show, SetVisibility and Fetch never distinguish the
// two cases, so a private file's existence cannot be probed by other users.
// This is part of the API contract, not an accident of implementation.
//
// # Storage
//
// Repository has two implementations. MongoRepository stores nodes in the
// "files" collection and pages through them with a single aggregation
// ($match, $sort by _id descending, $facet for count and slice).
// MemoryRepository mirrors the same semantics for tests and local runs.
package files
