// Package nmea is a streaming NMEA 0183 sentence parser.
//
// Characters are fed one at a time; the parser recognizes RMC and GGA
// sentences (GP and GN talker variants), verifies the XOR checksum,
// and commits position, date, time, speed, course, altitude, satellite
// count and HDOP through a staged two-phase model: a corrupted
// sentence never disturbs previously committed data.
//
// Arbitrary terms of arbitrary sentence types can additionally be
// captured with Register; they flow through the same validate-then-
// commit pipeline.
//
// The parser performs no I/O and keeps no sentence buffer; the caller
// owns the read loop.
package nmea
