package constants

// DateLayout is the calendar format registry extracts print, e.g. "05 Mar 1991".
const DateLayout = "02 Jan 2006"

// SentinelCurrent marks an open-ended interval in a To column.
const SentinelCurrent = "(current)"

// GSTNotRegistered is the distinguished status stored when a document states
// the entity holds no GST registration.
const GSTNotRegistered = "Not registered"
