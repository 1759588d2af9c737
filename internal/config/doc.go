// Package config loads the tracker's TOML file and the aggregator's environment.
//
// # Tracker Configuration
//
// Load reads ~/.config/pledge/config.toml (or an explicit path). A missing file
// is not an error: the defaults describe a complete campaign (Rp 20,000,000
// goal, ten milestones, 10 second polling).
//
//	api_url = "https://tracker.example.com/api/sheet-data"
//	goal = 20000000
//	currency = "Rp"
//	poll_interval_seconds = 10
//	request_timeout_seconds = 5   # defaults to half the interval
//	simulate = false
//	log_file = "~/.local/state/pledge/pledge.log"
//
//	[[milestones]]
//	name = "Mr. Osborne"
//	amount = 2000000
//	image = "images/milestone1.jpg"
//
// Milestones are sorted by amount after loading. A non-positive goal, a
// non-positive or duplicated milestone amount, or a missing api_url (with
// simulation off) is rejected so the tracker never starts in a state it
// cannot render.
//
// # Aggregator Configuration
//
// LoadServer reads the environment, seeded from a .env file when present:
//
//   - GOOGLE_SERVICE_ACCOUNT: service account JSON (or GOOGLE_SERVICE_ACCOUNT_FILE)
//   - SPREADSHEET_ID: required
//   - RANGE: cell to read, default Sheet1!I9
//   - PORT: default 3000
//   - CORS_ORIGINS: comma separated, default *
//   - APP_ENV: "development" switches to console logging at debug level
//
// Credential problems are startup errors. There is no demo identity.
package config
