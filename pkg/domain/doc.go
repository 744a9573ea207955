/*
Package domain contains the shared vocabulary of the stepsort engine.

It defines the values exchanged between the steppable sorters, the driver
(runner) and the outer adapters. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Reason: why the last step highlighted its indices (Comparing or Switching).
  - Highlight: the index pair touched by the last step, or the Sentinel pair.
  - Frame: a read-only snapshot of a run after a step, used for rendering.
  - Session: the durable record of a run, restored by deterministic replay.
  - LifecycleHooks: callbacks for observing steps, completion and resets.
*/
package domain
