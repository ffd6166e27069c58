// Package internalcheck holds source-policy tests for the magic module.
//
// The tests load the module with golang.org/x/tools/go/packages and fail when
// code outside the native call layer imports "C" or "unsafe", when library
// code prints to the standard streams, or when analysed data is handed to a
// logger. The package has no exported API.
package internalcheck
