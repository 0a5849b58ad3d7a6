// Package gps runs the receiver feed: it reads raw characters from a
// serial GNSS receiver (or a replay capture), pushes them through the
// streaming NMEA parser, and republishes each validated fix as a
// snapshot.
//
// This is a best-effort service; read failures stop the feed but must
// not bring down the main process.
package gps
