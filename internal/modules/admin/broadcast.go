package admin

import (
	"context"
	"fmt"
	"log"
)

// Broadcast sends a message to the selected audience. Delivery failures
// to individual recipients are logged and skipped; the response reports
// how many sends succeeded.
func (s *Service) Broadcast(ctx context.Context, req BroadcastRequest) (*BroadcastResponse, error) {
	var (
		ids []int64
		err error
	)
	switch req.Target {
	case "", BroadcastAll:
		ids, err = s.users.ListTelegramIDs(ctx, false)
	case BroadcastActive:
		ids, err = s.users.ListTelegramIDs(ctx, true)
	case BroadcastByDirection:
		if req.DirectionID == 0 {
			return nil, fmt.Errorf("%w: direction_id is required for this target", ErrValidation)
		}
		ids, err = s.users.ListTelegramIDsByDirection(ctx, req.DirectionID)
	default:
		return nil, fmt.Errorf("%w: unknown broadcast target %q", ErrValidation, req.Target)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}

	sent := 0
	for _, id := range ids {
		if err := s.broadcaster.SendText(ctx, id, req.Message); err != nil {
			log.Printf("broadcast to %d failed: %v", id, err)
			continue
		}
		sent++
	}
	return &BroadcastResponse{Recipients: len(ids), Sent: sent}, nil
}
