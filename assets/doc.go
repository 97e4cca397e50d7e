// Package assets loads game assets asynchronously from a virtual
// filesystem and hands out stable handles while the bytes are still in
// flight.
package assets
