// Package pid parses and formats IFCB permanent identifiers (PIDs).
//
// Two hardware generations name their raw files differently:
//
//	IFCB1_2000_001_123456          generation 1 (instrument, year, day of year, time)
//	D20000101T123456_IFCB001       generation 2 (date, time, instrument)
//
// Either form may carry a leading path or URL namespace and a trailing
// target number, product and extension:
//
//	http://example.org/data/D20160714T023910_IFCB101_00014_blob.zip
//
// Parsing is exact: for every string s accepted by Parse, Parse(s).String() == s.
//
// # Templates
//
// Both generations are described by timestamp templates compiled into anchored
// regular expressions (see Compile). The template language is small:
//
//	yyyy  four-digit year            mm   month 01-12
//	dd    day of month 01-31         DDD  day of year 001-366
//	HH    hour 00-23                 MM   minute 00-59
//	SS    second 00-59               sss  milliseconds (any number of s)
//	111   fixed-width digit group    #    any digit string
//	i     identifier                 .ext file extension
//	.     literal dot                any  wildcard
package pid
