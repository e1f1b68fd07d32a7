package debate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrAuthentication     = errors.New("authentication failed")
	ErrAlreadyActive      = errors.New("already_active")
	ErrNotInRoom          = errors.New("not_in_room")
	ErrSessionClosed      = errors.New("session_closed")
	ErrCoordinatorStopped = errors.New("coordinator_stopped")
)

// invariantViolation is a hard stop: it means the engine's own bookkeeping is
// inconsistent, which no caller input can cause.
func invariantViolation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	zap.L().Error("debate.invariant_violation", zap.String("detail", msg))
	panic("debate: invariant violation: " + msg)
}
