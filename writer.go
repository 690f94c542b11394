package rdfreader

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jf-tech/go-corelib/strs"

	"github.com/deepmatterltd/rdfreader/chem"
	"github.com/deepmatterltd/rdfreader/parse"
)

const datestampLayout = "02/01/06 15:04"

// Write emits an RDF file: the $RDFILE/$DATM header followed by one
// "$RFMT $RIREG <id>" record per reaction block. ids may be nil or contain
// blanks; missing ids default to sequential five-digit numbers. Blocks are
// written verbatim (a missing trailing newline is supplied).
func Write(w io.Writer, blocks []string, ids []string) error {
	if ids != nil && len(ids) != len(blocks) {
		return fmt.Errorf("got %d id(s) for %d block(s)", len(ids), len(blocks))
	}
	_, err := fmt.Fprintf(w, "%s 1\n%s %s\n",
		parse.SenRDFile, parse.SenDatestamp, time.Now().Format(datestampLayout))
	if err != nil {
		return err
	}
	for i, block := range blocks {
		id := ""
		if ids != nil {
			id = ids[i]
		}
		id = strs.FirstNonBlank(id, fmt.Sprintf("%05d", i+1))
		if _, err := fmt.Fprintf(w, "%s %s %s\n",
			parse.SenRecordStart, parse.SenIntRegistry, id); err != nil {
			return err
		}
		if _, err := io.WriteString(w, block); err != nil {
			return err
		}
		if !strings.HasSuffix(block, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteReactions round-trips parsed reactions back out as an RDF file, using
// each reaction's raw block and registry id.
func WriteReactions(w io.Writer, reactions []*chem.Reaction) error {
	blocks := make([]string, len(reactions))
	ids := make([]string, len(reactions))
	for i, r := range reactions {
		blocks[i] = r.RXNBlock
		ids[i] = r.ID
	}
	return Write(w, blocks, ids)
}
