// Package hcm is the payroll/HR platform connector. It covers the paged
// worker export, the worker change-event endpoint, and the platform's
// structured error bodies.
package hcm
