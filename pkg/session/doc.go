/*
Package session implements the session registry: key derivation from
(directory, session ID) pairs and the create/get/update/end operations
as short get-modify-set sequences against a key-value store.

The registry is stateless; every operation is one request/response
cycle. There is no read-modify-write atomicity unless a SessionLocker
is configured.
*/
package session
