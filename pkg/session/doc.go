/*
Package session keeps visualization runs alive between requests.

A run is persisted as a small record (algorithm, seed, original numbers,
step count) through a ports.SessionStore. Live runners are cached in
memory; when a runner is missing or stale (another replica advanced the
run) it is rebuilt by replaying the recorded steps, which is exact because
every sorter is deterministic for a given seed.

Access to a session is serialized per ID with reference-counted local
locks and, optionally, a ports.DistributedLocker for multi-replica setups.
*/
package session
