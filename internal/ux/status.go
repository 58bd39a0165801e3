package ux

import (
	"fmt"

	"github.com/jorge-barreto/splice/internal/journal"
)

// RenderHistory prints journaled edits, newest first.
func (p *Printer) RenderHistory(entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(p.w, "  %s\n", dim("(no edits recorded)"))
		return
	}
	fmt.Fprintf(p.w, "%s\n", bold(fmt.Sprintf("%-36s  %-19s  %-17s  %s", "ID", "WHEN", "KIND", "FILE")))
	for _, e := range entries {
		kind := e.Kind
		if !e.Existed {
			kind += " (new)"
		}
		fmt.Fprintf(p.w, "%s  %s  %-17s  %s\n",
			cyan(e.ID), dim(e.CreatedAt.Local().Format("2006-01-02 15:04:05")), kind, e.File)
	}
}
