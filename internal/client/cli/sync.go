package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Sync replays queued writes immediately and refreshes the list. Useful when
// the user does not want to wait for the connectivity watcher.
func (a *App) Sync(ctx context.Context) error {
	if n := a.gateway.QueueLen(); n == 0 {
		printlnFn("Nothing to sync.")
	} else {
		replayed, requeued := a.gateway.DrainQueue(ctx)
		printlnFn(fmt.Sprintf("Replayed %d, still pending %d.", replayed, requeued))
	}

	if err := a.store.Load(ctx, true); err != nil {
		printlnFn("Refresh failed:", err.Error())
	}
	return nil
}

// Stats fetches journal statistics from the server and prints them.
func (a *App) Stats(ctx context.Context) error {
	res := a.gateway.Stats(ctx)
	if res.Err != nil {
		if res.Offline {
			printlnFn("Stats need a connection.")
		} else {
			printlnFn("Stats failed:", res.Err.Error())
		}
		return res.Err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, res.Data, "", "  "); err != nil {
		printlnFn(string(res.Data))
		return nil
	}
	printlnFn(pretty.String())
	return nil
}
