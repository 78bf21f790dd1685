// Package model groups the in-memory representation of process definitions,
// their dependencies and the runtime graphs instantiated from them.
//
// Definitions are built from the `graph`, `property` and `collection`
// building blocks and live in `lifecycle`; `instance` holds the runtime
// shapes. None of these packages perform I/O; stores, loaders and script
// engines are supplied by the service packages.
package model
