// Package geom provides the planar primitives used by odometry and motion
// control: [Vector2], [Pose], angle helpers and the line–circle intersection
// used by pure pursuit.
//
// Headings are in degrees, counter-clockwise positive. Poses keep them in
// [0, 360); [SignedDegrees] maps an angle into [-180, 180) for comparisons
// that need shortest-turn semantics.
//
// Vector arithmetic is delegated to gonum's r2 package.
package geom
