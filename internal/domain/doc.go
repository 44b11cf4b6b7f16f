// Package domain holds the request/response record model and the bulk
// buffer the emitter fills.
//
// Nothing here talks to the network or logs. Records are plain maps so the
// host can attach any field it likes; only id, @timestamp, attrs and
// attrsint carry meaning to the emitter.
package domain
