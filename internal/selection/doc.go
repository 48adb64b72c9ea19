// Package selection tracks what the user has selected: the node tracker
// with primary id, mode and derived bounds, plus flat edge and area
// selection sets. Every mutation emits a selection-changed event;
// consumers subscribe rather than being called directly.
package selection
