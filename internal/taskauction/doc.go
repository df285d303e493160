// Package taskauction implements a lowest-bid reverse auction that assigns
// tasks to members of a fixed group.
//
// Two surfaces share the core. A TurnController runs a single round in
// which participants take turns bidding, one at a time. A Directory holds
// many independently timed auctions keyed by id. Service wraps both behind
// one mutex.
package taskauction
