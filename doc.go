// Package asynclog holds the library version. The logging API lives in
// the logger package; the building blocks are in core, pool, queue,
// formatter and sink.
package asynclog
