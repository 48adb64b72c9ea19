// Package router turns raw pointer and keyboard gestures into canvas
// mutations. A pointer-down is interpreted into an intent by a pure
// function of gesture and active tool; executing the intent may open an
// interaction (drag, marquee, pan, link drag) that subsequent moves feed
// and pointer-up settles. The router mutates the graph engine, the
// selection trackers, the area store, the camera, and the view state,
// and announces interaction boundaries on the bus so history can bracket
// a drag as one step.
package router
