// Package stoptoken provides a cooperative cancellation flag for retry waits.
//
// A Source owns the flag and is the only writer; Token values are cheap
// read-only views handed to the code that polls. The zero Token is
// unassociated: StopPossible reports false and it can never observe a stop.
package stoptoken
