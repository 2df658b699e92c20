package mail

import (
	"context"

	"github.com/chiquebutik/butik/pkg/logger"
)

// Log writes messages to the logger instead of sending them.
type Log struct {
	from Address
}

func NewLog(from Address) *Log { return &Log{from: from} }

func (l *Log) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("mail: not sent (log driver)",
		"from", l.from.String(),
		"to", msg.To.String(),
		"reply_to", msg.ReplyTo.Email,
		"subject", msg.Subject,
	)
	return nil
}
