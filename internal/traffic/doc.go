// Package traffic wraps every CRUD operation with an operation id, a pair of
// structured log events and a tracing span. The start event of an id always
// precedes its terminal success or error event; nothing is ordered across
// ids. Failures raised by the wrapped function are logged and handed back
// unchanged, panics included.
package traffic
