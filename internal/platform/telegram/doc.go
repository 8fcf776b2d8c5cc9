// Package telegram adapts the Telegram Bot API to the orchestrator's
// messaging surfaces: quiz polls, menu keyboards, and webhook update
// dispatch. User identities are Telegram user IDs rendered as strings;
// the rest of the system treats them as opaque.
package telegram
