// Package integration implements the integration use cases: the provider
// config store, the sync execution loop, health reporting, bulk admin actions
// and the admin integration editor.
package integration
