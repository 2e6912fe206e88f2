// Package domain defines the core business types for the PM Letter course.
//
// Types in this package are plain value objects with no database
// dependencies and no HTTP concerns. They are the shared language between
// handlers, services, the progress job and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Small pure helpers on the types are allowed
//   - Constants and enums belong here
package domain
