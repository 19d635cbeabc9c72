package interject

// Exports for testing.

// RemoveCountingPasses runs the removal loop and also reports how many
// passes the fixed-point iteration took.
var RemoveCountingPasses = remove
