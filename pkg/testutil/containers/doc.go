// Package containers starts throwaway backing services for integration
// tests. The helpers build only under the integration tag; nothing here
// compiles into regular test runs.
package containers
