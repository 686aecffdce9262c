/*
Package ports defines the interfaces between the session registry and
its driven adapters (key-value storage, locking), following a
hexagonal layout: the registry depends only on these contracts, and
adapters implement them.

The tests subpackage provides a reusable contract suite that any
KVStore implementation should pass.
*/
package ports
