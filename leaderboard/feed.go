package leaderboard

import (
	"context"
	"fmt"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Subscribe connects to the live standings feed at url and calls fn with
// every standings update until ctx is cancelled or the server closes the
// connection. A normal close or cancellation returns nil.
func Subscribe(ctx context.Context, url string, fn func([]Entry)) error {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("leaderboard: dial feed: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	for {
		var msg FeedMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("leaderboard: read feed: %w", err)
		}
		if msg.Type != FeedStandings {
			continue
		}
		fn(msg.Entries)
	}
}
