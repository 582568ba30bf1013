package directory

import "fmt"

// DirectoryError indicates that the directory rejected an operation.
// Detail carries the raw provider response body.
type DirectoryError struct {
	Op     string
	Status int
	Detail string
}

// Error implements the error interface.
func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s failed: status=%d, body=%s", e.Op, e.Status, e.Detail)
}

// RoleNotFoundError indicates that a requested role name does not exist
// in the directory's role catalog.
type RoleNotFoundError struct {
	Role string
}

// Error implements the error interface.
func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("role not found in directory: %s", e.Role)
}
