// Package calendar provides a client for the Google Calendar API scoped to a
// single calendar.
//
// The client covers the event lifecycle the agent needs: listing upcoming
// events, creating events (optionally with a Google Meet conference attached
// in the same call), fetching, full-state updates, and deletion. Event times
// are rendered with the configured timezone label; all-day events surface
// their plain date in EventSummary.StartRaw.
//
// Authentication uses the google package's OAuth2 token files via the
// TokenProvider abstraction.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx, calendar.Config{TimeZone: "America/Los_Angeles"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListUpcoming(ctx, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
