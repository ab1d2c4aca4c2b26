package database

import "time"

// StoredMessage is one inbound direct message as received. Records are
// written once and never mutated or deleted by the bot.
type StoredMessage struct {
	ID      string    `db:"id"`
	Number  string    `db:"number"`
	Message string    `db:"message"`
	Date    time.Time `db:"date"`
}
