// Package utils holds the low-level helpers behind the gateway transport:
// [DoRequest] and [DoStream] for HTTP round-trips with span events,
// [LineScanner] for line-delimited stream bodies, [BuildMultipart] for file
// uploads, [UnmarshalLenient] for JSON that may be damaged, plus [Timer],
// [Ptr] and string truncation.
package utils
