// Package wfm is the time-and-attendance platform connector. It covers the
// report, symbolic-period and hyperfind catalogs, and the asynchronous
// report-execution protocol: submit all configured reports, then poll a
// shared status endpoint until every execution reaches a terminal state.
package wfm
