// Package devtools records every gateway call to a local capture directory
// and reads those captures back.
//
// A [Recorder] appends one JSON line per call to generations.jsonl and writes
// metadata.json once per directory. Capture is best effort: write failures
// are logged and dropped, and a disabled recorder never touches the
// filesystem. [ReadEntries], [ReadSessionMetadata], [ComputeStats], [WriteCSV]
// and [Clear] serve the inspection side.
package devtools
