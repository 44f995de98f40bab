// Package notifier provides notification interfaces and implementations for GDG Londrina events.
//
// The notifier package posts upcoming-event announcements to Twitter, or prints
// them in dry-run mode. Posts are paced by a token-bucket limiter so a batch of
// events does not hit the platform all at once.
package notifier
