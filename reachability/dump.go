package reachability

import (
	"io"

	"github.com/dalzilio/rudd"
	"github.com/klauspost/compress/gzip"

	"github.com/sybila/biodivine-logical-model-toolkit/system"
)

// DumpDotGz writes a gzip-compressed Graphviz dot export of set to w, for
// offline inspection of large intermediate BDDs (peak memory during
// reachability is proportional to the largest intermediate diagram, so a
// debug export is the one place this core touches an io.Writer at all).
func DumpDotGz(w io.Writer, sys *system.System, set rudd.Node) error {
	gz := gzip.NewWriter(w)
	if _, err := io.WriteString(gz, sys.BddToDotString(set)); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
