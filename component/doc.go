// Package component defines lifecycle-managed components and the helpers
// that order their teardown.
//
// Registry starts components in registration order and stops them in
// reverse. Stack does the same for individual resources acquired inside a
// component, such as a created container that must be stopped and then
// removed.
package component
