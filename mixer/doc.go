// Package mixer implements the realtime playback backend for audial.
//
// A Manager owns the output device and a fixed budget of voices. Control
// code talks to the render side through a bounded command queue, and the
// render side publishes voice state and position through atomics, so
// queries never block audio rendering.
package mixer
