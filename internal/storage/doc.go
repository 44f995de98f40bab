// Package storage provides JSON-based persistence of which events were already announced.
//
// The storage package keeps one ledger file per notification channel
// (announced_CHANNEL.json) so repeated runs of the notifier only announce events
// that were not announced before. The default storage location is
// ~/.local/share/gdg-meetup/.
package storage
