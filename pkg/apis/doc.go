// Package apis provides API type definitions for sky-local resources.
//
// This package contains versioned API types following Kubernetes API conventions:
//
//   - local: request types for local cluster bring-up and teardown
package apis
