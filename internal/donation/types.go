package donation

import "errors"

// SheetData mirrors the payload returned by GET /sheet-data.
type SheetData struct {
	Amount  int64  `json:"amount"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NoDataMessage is the error text sent when the configured range is empty.
const NoDataMessage = "No data found"

var (
	// ErrProviderUnavailable means the endpoint answered 5xx because it could
	// not reach the spreadsheet.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNoData means the endpoint answered but reported success=false.
	ErrNoData = errors.New("no data")
	// ErrTransport means the endpoint could not be reached or its reply was unreadable.
	ErrTransport = errors.New("transport failure")
)
