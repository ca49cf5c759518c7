package driven

// IDGenerator produces identifiers for new services.
// Successive calls must not return a value already handed out by the same generator.
type IDGenerator interface {
	NewID() string
}
