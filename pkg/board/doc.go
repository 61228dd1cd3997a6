// Package board is the live board document.
//
// A Board owns devices, net lines and board-level stroke texts. Each device
// owns one Footprint, which in turn owns its pads and stroke texts. Children
// keep a non-owning pointer to their parent; parents never hand out ownership.
//
// Every item follows the same lifecycle: it is constructed detached,
// AddToBoard attaches it (registering connectivity and graphics), and
// RemoveFromBoard detaches it again. Composite items apply these steps to all
// children and undo the completed ones if a later step fails, so the
// document is never left half attached.
//
// Nothing here is safe for concurrent use. All notifications are delivered
// synchronously from within the call that caused them.
package board
