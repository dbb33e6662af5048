/*
Package routing is the conversation routing engine: given the current
session state and the outcome of the last processing step, it
deterministically decides which processing step runs next.

The engine never calls processing steps itself. The caller loops:
invoke step, invoke router, invoke the returned target. Two entry
points exist on Router:

  - Route: phase-based dispatch after user input has been analyzed.
  - RouteAfter: specialized post-step dispatch that branches on the
    step's Ok/Failed result, engaging the error classifier and retry
    policy on failure.

Every decision flows through the middleware chain, the routing
validator (transition table membership plus per-target prerequisites)
and the metrics recorder before being returned.
*/
package routing
