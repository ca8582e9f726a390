// Package dynamo provides the core primitives shared by the flight simulation.
//
// The package defines the value types the rest of the simulator is built on:
//
//   - [Vec3]: float64 3-vector with guarded normalization
//   - [AgentState]: position, velocity and per-frame acceleration of the plane
//   - [Limits]: a max-speed / max-force steering profile
//   - [Phase]: intro approach or free flight
//
// # Thread Safety
//
// None of these types are synchronized. All agent state is owned by the
// single frame loop in package flight.
package dynamo
