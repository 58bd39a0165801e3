package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jorge-barreto/splice/internal/editerr"
	"github.com/jorge-barreto/splice/internal/journal"
)

var errNoJournal = editerr.Invalid("journal", "disabled; set journal.path in .splice/config.yaml")

// History lists journaled edits, newest first. A non-empty file filters by
// path.
func (e *Engine) History(file string, limit int) ([]journal.Entry, error) {
	if e.journal == nil {
		return nil, errNoJournal
	}
	return e.journal.List(file, limit)
}

// Undo restores the content a journaled edit replaced. It refuses when the
// file has changed since that edit. Undoing the creation of a file removes
// it; any other undo is journaled and can be undone in turn.
func (e *Engine) Undo(id string) (*Result, error) {
	if e.journal == nil {
		return nil, errNoJournal
	}
	entry, err := e.journal.Get(id)
	if errors.Is(err, journal.ErrNotFound) {
		return nil, editerr.Invalid("id", fmt.Sprintf("no journaled edit %q", id))
	}
	if err != nil {
		return nil, &IOError{Op: "journal", Path: id, Err: err}
	}

	cur, err := os.ReadFile(entry.File)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, editerr.Invalid("file", fmt.Sprintf("%s no longer exists; cannot undo %s", entry.File, id))
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: entry.File, Err: err}
	}
	if journal.Hash(cur) != entry.AfterHash {
		return nil, editerr.Invalid("file", fmt.Sprintf("%s changed since edit %s; refusing to undo", entry.File, id))
	}

	newID := uuid.NewString()
	res := e.result(entry.File, cur, string(entry.Before))
	res.ID, res.Kind, res.File = newID, KindUndo, entry.File

	if !entry.Existed {
		if err := os.Remove(entry.File); err != nil {
			return nil, &IOError{Op: "remove", Path: entry.File, Err: err}
		}
		res.Applied = true
	} else if err := e.commit(newID, KindUndo, entry.File, cur, true, res); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{"id": newID, "undid": id, "file": entry.File}).Info("edit undone")
	return res, nil
}
