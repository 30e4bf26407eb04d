package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Render produces the verbose tree printout spec.md §6 describes: one node
// per line, one leading space per depth level, bracketed inline bodies for
// nodes that carry attributes. It is the CLI's --verbose tree dump and
// doubles as the parser's golden-test format.
func Render(n Node) string {
	var b strings.Builder
	render(&b, n, 0)
	return b.String()
}

func render(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat(" ", depth))
	b.WriteString(head(n))
	b.WriteByte('\n')
	for _, c := range Children(n) {
		render(b, c, depth+1)
	}
	if list, ok := n.(*InIntegerList); ok {
		b.WriteString(renderListBody(list, depth+1))
	}
}

// head renders a single node's own line, without indentation or a trailing
// newline, including any bracketed body. An InIntegerList's VALUES/FROM_FILE
// line is not part of it; render appends that via renderListBody.
func head(n Node) string {
	switch t := n.(type) {
	case *BoolValue:
		if t.Value {
			return "TRUE"
		}
		return "FALSE"
	case *IntValue:
		return "INT_VALUE[" + strconv.FormatInt(t.Value, 10) + "]"
	case *StrValue:
		return "STR_VALUE[" + t.Value + "]"
	case *RegexValue:
		return "REGEX_VALUE[" + t.Pattern + "]"
	case *IntAttr:
		return "INT_ATTR[" + t.Attr.String() + "]"
	case *StrAttr:
		return "STR_ATTR[" + t.Attr.String() + "]"
	case *BoolAttr:
		return "BOOL_ATTR[" + t.Attr.String() + "]"
	case *And:
		return "BOOL_AND"
	case *Or:
		return "BOOL_OR"
	case *Not:
		return "BOOL_NOT"
	case *BinaryInt:
		return "INT_BIN_OP[" + t.Op.String() + "]"
	case *BinaryStr:
		return "BIN_STR_OP[" + t.Op.String() + "]"
	case *HasKey:
		return "HAS_KEY[" + t.Key + "]"
	case *CheckTagStr:
		return "CHECK_TAG[" + t.Key + "][" + t.Op.String() + "][" + t.Value + "]"
	case *CheckTagRegex:
		s := "CHECK_TAG[" + t.Key + "][" + t.Op.String() + "][" + t.Pattern + "]"
		if t.CaseInsensitive {
			s += "[IGNORE_CASE]"
		}
		return s
	case *CheckObjectType:
		return "CHECK_OBJECT_TYPE[" + t.Kind.String() + "]"
	case *CountTags:
		return "COUNT_TAGS"
	case *CountNodes:
		return "COUNT_NODES"
	case *CountMembers:
		return "COUNT_MEMBERS"
	case *InIntegerList:
		return "IN_INT_LIST[" + t.Op.String() + "]"
	default:
		return fmt.Sprintf("UNKNOWN[%T]", n)
	}
}

// renderListBody is appended as a synthetic last child line under an
// InIntegerList node (spec.md §6): VALUES[v1, v2, v3, v4, v5, ...] for up
// to five inline values then an ellipsis, or FROM_FILE[path] for a
// file-sourced set.
func renderListBody(n *InIntegerList, depth int) string {
	indent := strings.Repeat(" ", depth)
	if n.Source == SourceFile {
		return indent + "FROM_FILE[" + n.FilePath + "]\n"
	}
	parts := make([]string, 0, 5)
	for i, v := range n.InlineValues {
		if i == 5 {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, strconv.FormatInt(v, 10))
	}
	return indent + "VALUES[" + strings.Join(parts, ", ") + "]\n"
}
