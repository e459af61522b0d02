package tabledb

import (
	"fmt"
	"io"

	"github.com/aeroindex/aeroindex/schema"
)

// PrintTableStatus prints table database status information.
func PrintTableStatus(w io.Writer, status schema.TableStatus) {
	_, _ = fmt.Fprintf(w, "Table Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Categories: %d\n", status.Categories)
	_, _ = fmt.Fprintf(w, "Options: %d\n", status.Options)
	_, _ = fmt.Fprintf(w, "Groups: %d\n", status.Groups)
	_, _ = fmt.Fprintf(w, "Adjustment Rules: %d\n", status.Adjustments)
	if status.LastImportTime.IsZero() {
		_, _ = fmt.Fprintln(w, "Last Import: never")
		return
	}
	_, _ = fmt.Fprintf(w, "Last Import: %s\n", status.LastImportTime.Format("2006-01-02 15:04:05"))
}
