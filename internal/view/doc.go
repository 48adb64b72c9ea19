// Package view is the navigation state machine: application mode, view
// context (home/space/node/now), active tool, open space, cluster field
// scope, deep-view node, overlay panels, focus session, and the persisted
// UI toggles. State changes happen only through explicit transitions.
package view
