/*
Package ports defines the driven ports (interfaces) of the stepsort service.

The sorting engine itself has no I/O. These interfaces let the session
layer persist runs and coordinate access to them without knowing which
backend is in use.

# Key Interfaces

  - SessionStore: persists and loads session records (memory, file, redis).
  - DistributedLocker: serializes access to a session across replicas.
*/
package ports
