// Package sheets reads cell values from Google Sheets.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Reader returns the raw rows of a range. Rows may be ragged and cells hold
// float64, string, or bool values as decoded from the API's JSON.
type Reader interface {
	ReadRange(ctx context.Context, spreadsheetID, cellRange string) ([][]any, error)
}

// Ensure Client implements Reader at compile time.
var _ Reader = (*Client)(nil)

// Client reads ranges with a service account.
type Client struct {
	svc *gsheets.Service
}

// NewClient authenticates with the service account JSON using the read-only
// spreadsheets scope.
func NewClient(ctx context.Context, credentials []byte) (*Client, error) {
	if len(credentials) == 0 {
		return nil, fmt.Errorf("service account credentials are empty")
	}
	return NewClientWithOptions(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope),
	)
}

// NewClientWithOptions builds a Client from raw API options.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ReadRange fetches cellRange unformatted so numeric cells arrive as numbers
// rather than locale-formatted strings.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, cellRange string) ([][]any, error) {
	if c == nil || c.svc == nil {
		return nil, fmt.Errorf("sheets client is nil")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, cellRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cellRange, err)
	}
	rows := make([][]any, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = append([]any(nil), row...)
	}
	return rows, nil
}
