// Package notifications delivers run lifecycle notifications through ntfy.
//
// When no ntfy topic is configured the service degrades to a noop so callers
// never need to branch on whether notifications are enabled.
package notifications
