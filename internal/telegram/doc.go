// Package telegram provides Telegram Bot API integration for announcing GDG Londrina events.
//
// The package sends HTML-formatted messages (and event art as photos) via simple HTTP
// requests to the Bot API, and renders EventSummary values as Portuguese announcements.
//
// Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
