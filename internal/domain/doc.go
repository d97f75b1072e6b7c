// Package domain defines the core business entities of the application:
// users, teams, tasks, and the notifications generated for them.
//
// Entities are plain structs with UUID identities, constructor functions
// that validate their inputs, and Validate methods that enforce the
// entity's invariants. The domain layer has no dependencies on storage,
// transport, or any other infrastructure concern.
package domain
