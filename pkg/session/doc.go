/*
Package session orchestrates concurrent access to quiz sessions.

The routing engine requires that no two routing decisions for the same
session execute concurrently. The Manager enforces that with per-session
mutexes (reference counted, so idle sessions cost nothing) and an
optional distributed lock for multi-replica deployments.
*/
package session
