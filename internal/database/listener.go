package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// changeBuffer bounds the notification channel; invalidation is idempotent,
// so dropping a burst notification is harmless as long as one gets through.
const changeBuffer = 64

// ChangeListener turns Postgres NOTIFY messages into a stream of changed
// table names. Triggers on the watched tables are expected to call
// pg_notify(channel, TG_TABLE_NAME) on insert, update and delete.
type ChangeListener struct {
	pool    *pgxpool.Pool
	channel string
	changes chan string
}

// NewChangeListener prepares a listener on the given notification channel.
func NewChangeListener(pool *pgxpool.Pool, channel string) *ChangeListener {
	return &ChangeListener{
		pool:    pool,
		channel: channel,
		changes: make(chan string, changeBuffer),
	}
}

// Changes returns the stream of changed table names.
func (l *ChangeListener) Changes() <-chan string {
	return l.changes
}

// Run holds a dedicated connection and forwards notifications until the
// context is cancelled. The changes channel is closed on return.
func (l *ChangeListener) Run(ctx context.Context) error {
	defer close(l.changes)

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return fmt.Errorf("listen on %s: %w", l.channel, err)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		select {
		case l.changes <- notification.Payload:
		default:
			log.Printf("change_listener dropped notification table=%s", notification.Payload)
		}
	}
}
