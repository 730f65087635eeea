// Package netx holds small networking helpers shared by the client.
package netx

import (
	"context"
	"fmt"
	"net/http"
)

// CheckEndpoint issues a lightweight HEAD request against url and returns an
// error when the endpoint cannot be reached or answers with a server error.
// Client errors (4xx) still count as reachable: the network path is up even
// if the endpoint dislikes the request.
func CheckEndpoint(ctx context.Context, client *http.Client, url string) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("endpoint unhealthy: %s", resp.Status)
	}
	return nil
}
