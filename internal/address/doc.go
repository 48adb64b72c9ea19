// Package address serializes navigation position (space, scope, target,
// camera, selection) into a portable address and resolves such addresses
// back into live view, camera, and selection state. Addresses enable deep
// links and back/forward navigation.
package address
