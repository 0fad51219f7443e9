package reader

// State of the controller. Every command leaves controller Idle once page is
// recomputed, other states are only observed while command is executing or
// while selection is being dragged.
// ENUM(idle, paginating, searching, selecting)
type State int
