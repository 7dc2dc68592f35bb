package notify

import (
	"errors"
	"fmt"
	"time"
)

// ErrPermanentlyDenied reports that the recipient can never be reached
// again: the chat blocked the bot, kicked it, or was deleted. The worker
// reacts by disabling the recipient's schedule.
var ErrPermanentlyDenied = errors.New("recipient permanently denied delivery")

// RateLimitedError reports that the messaging platform asked us to slow
// down. Wait is how long the platform told us to hold off before the
// next attempt.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.Wait)
}
