// Package errors provides structured error types for better observability
// and programmatic error handling across the installer.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeNotFound,
//	    "target configuration file does not exist",
//	    os.ErrNotExist,
//	    map[string]interface{}{
//	        "path": targetPath,
//	    },
//	)
package errors
