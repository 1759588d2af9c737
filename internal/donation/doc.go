// Package donation provides the client side of the sheet-data contract.
//
// # Overview
//
// The aggregator endpoint answers GET /sheet-data with a fixed JSON shape:
//
//	{"amount": 5000000, "success": true}
//	{"amount": 0, "success": false, "error": "No data found"}
//
// SheetData mirrors that payload and is shared with the server so both sides
// agree on field names.
//
// # Fetchers
//
// AmountFetcher is the narrow contract the poller depends on. Two
// implementations exist:
//
//   - Client: HTTP GET against the aggregator, 5 second default timeout
//   - Simulator: adds a fixed step on every call, wrapping once it passes the
//     goal; used for demos and for exercising the display without a sheet
//
// # Error Handling
//
// Client errors wrap one of three sentinels so callers can use errors.Is:
//
//   - ErrProviderUnavailable: the endpoint returned 5xx (spreadsheet unreachable,
//     bad credential, invalid range)
//   - ErrNoData: the endpoint returned 200 with success=false
//   - ErrTransport: connection failure, 4xx, or an unreadable body
//
// Example messages:
//   - "provider unavailable: api returned status 500: invalid range"
//   - "no data: No data found"
//   - "transport failure: execute request: dial tcp: connection refused"
//
// The client never retries; the poller decides when to ask again.
package donation
