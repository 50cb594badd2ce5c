// Package logtail reads the end of the todosync log file for the in-app
// log view.
//
// # Reading
//
// Read keeps a ring buffer of maxLines lines while scanning the file once,
// so memory stays O(maxLines) however large the log grows:
//
//	entries, err := logtail.Read(cfg.LogFile, 200)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.Format())
//	}
//
// A missing file is not an error; the log is created lazily by the first
// write.
//
// # Parsing
//
// Each line is decoded as a zap JSON entry. The ts, level and msg keys
// become Entry fields, caller and stacktrace are dropped, and every other
// key lands in Fields as text. Lines that are not JSON are kept verbatim in
// Raw and Message with an empty Level, and Format prints them unchanged.
package logtail
