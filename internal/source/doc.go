// Package source reads request/response records for the shipper.
//
// [FileTailer] follows a newline-delimited JSON file the way tail -F does:
// it waits on filesystem notifications for appended data and reopens the
// file when it is truncated, rotated or recreated.
package source
