package filter

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/wegman-software/osmfilter-go/internal/idset"
)

// IntListSource distinguishes InIntegerList's two id-set sources
// (spec.md §3, §4.3).
type IntListSource int

const (
	SourceInline IntListSource = iota
	SourceFile
)

// mmapThresholdBytes: file-sourced id lists larger than this back their
// set with a memory-mapped bitset (internal/idset.BitsetSet) instead of a
// plain Go map, mirroring the cardinality-driven choice spec.md §4.3
// allows.
const mmapThresholdBytes = 8 << 20

// InIntegerList tests membership of Expr's value in a precomputed set of
// unsigned 64-bit ids (spec.md §3, §4.2): the signed evaluation result is
// reinterpreted as unsigned before lookup.
type InIntegerList struct {
	Expr         Node
	Op           ListOp
	Source       IntListSource
	InlineValues []int64 // printed verbatim by the renderer (VALUES[...])
	FilePath     string  // printed verbatim by the renderer (FROM_FILE[...])

	set     idset.Set
	bitset  *idset.BitsetSet // non-nil only when the file set used mmap backing
}

// NewInlineIntegerList builds an InIntegerList over a literal set of ids,
// ready to evaluate immediately (no preparation step needed).
func NewInlineIntegerList(expr Node, op ListOp, values []int64) *InIntegerList {
	s := idset.NewMapSet(len(values))
	for _, v := range values {
		s.Insert(uint64(v))
	}
	return &InIntegerList{Expr: expr, Op: op, Source: SourceInline, InlineValues: values, set: s}
}

// NewFileIntegerList builds an InIntegerList over a file source; the file
// is not read until Prepare runs (spec.md §4.3, §4.4 step 3).
func NewFileIntegerList(expr Node, op ListOp, path string) *InIntegerList {
	return &InIntegerList{Expr: expr, Op: op, Source: SourceFile, FilePath: path}
}

func (n *InIntegerList) ResultType() ResultType { return TypeBool }

// Prepare loads FilePath's whitespace-separated decimal ids into a set.
// I/O failure or non-numeric content is a preparation failure (spec.md
// §4.3, §7 item 4) and aborts the run.
func (n *InIntegerList) Prepare() error {
	if n.Source != SourceFile {
		return nil
	}
	set, bs, err := loadIDSetFromFile(n.FilePath)
	if err != nil {
		return err
	}
	n.set, n.bitset = set, bs
	return nil
}

// Close releases any mmap backing store Prepare allocated. Safe to call
// even when no file source was used.
func (n *InIntegerList) Close() error {
	if n.bitset != nil {
		return n.bitset.Close()
	}
	return nil
}

func (n *InIntegerList) EvalBool(ctx *EvalContext) bool {
	v := n.Expr.EvalInt(ctx)
	member := n.set != nil && n.set.Has(uint64(v))
	if n.Op == ListNotIn {
		return !member
	}
	return member
}

func (n *InIntegerList) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *InIntegerList) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// loadIDSetFromFile reads path as whitespace-separated decimal uint64 ids.
func loadIDSetFromFile(path string) (idset.Set, *idset.BitsetSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("intlist: stat %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("intlist: open %s: %w", path, err)
	}
	defer f.Close()

	ids := make([]uint64, 0, 1024)
	var maxID uint64

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4<<20)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		tok := sc.Text()
		v, perr := strconv.ParseUint(tok, 10, 64)
		if perr != nil {
			return nil, nil, fmt.Errorf("intlist: %s: non-numeric id %q", path, tok)
		}
		ids = append(ids, v)
		if v > maxID {
			maxID = v
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("intlist: read %s: %w", path, err)
	}

	if info.Size() <= mmapThresholdBytes || maxID > idset.MaxBitsetID {
		s := idset.NewMapSet(len(ids))
		for _, v := range ids {
			s.Insert(v)
		}
		return s, nil, nil
	}

	bs, err := idset.NewBitsetSet(path+".bitset", maxID)
	if err != nil {
		// Fall back to a map rather than failing preparation outright —
		// the mmap path is a size optimization, not a correctness one.
		s := idset.NewMapSet(len(ids))
		for _, v := range ids {
			s.Insert(v)
		}
		return s, nil, nil
	}
	for _, v := range ids {
		bs.Insert(v)
	}
	return bs, bs, nil
}
