// Package bot orchestrates the conversational surface: the main menu,
// word lookups, phrase browsing, and the bridges into the quiz engine.
// It is channel-agnostic; the Telegram adapter translates raw updates
// into calls on Service and renders its Messenger interface.
package bot
