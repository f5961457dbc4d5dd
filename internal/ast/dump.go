package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/types"
)

// DumpConfig supplies the tables needed to print names and types.
// Both fields are optional.
type DumpConfig struct {
	Strings *source.Interner
	Types   *types.Interner
}

// Dump writes an indented textual rendering of the subtree rooted at n.
func Dump(w io.Writer, n *Node, cfg DumpConfig) error {
	return dumpNode(w, n, cfg, 0)
}

func dumpNode(w io.Writer, n *Node, cfg DumpConfig, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(n, cfg)); err != nil {
		return err
	}
	return n.ForEachChild(func(_ int, c *Node) error {
		return dumpNode(w, c, cfg, depth+1)
	})
}

func describe(n *Node, cfg DumpConfig) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	if n.Attr.Name != source.NoStringID && cfg.Strings != nil {
		if name, ok := cfg.Strings.Lookup(n.Attr.Name); ok {
			fmt.Fprintf(&sb, " %q", name)
		}
	}
	switch n.Kind {
	case KindBinary, KindAssignment, KindTypeSpecifier, KindJumpStatement:
		fmt.Fprintf(&sb, " %s", n.Attr.Op)
	case KindUnary:
		if n.Attr.Postfix {
			fmt.Fprintf(&sb, " postfix %s", n.Attr.Op)
		} else {
			fmt.Fprintf(&sb, " %s", n.Attr.Op)
		}
	case KindLiteral:
		fmt.Fprintf(&sb, " %s", n.Attr.Value.Literal())
	case KindFullType, KindParameterDeclaration:
		if q := n.Attr.Qual.String(); q != "" {
			fmt.Fprintf(&sb, " %s", q)
		}
	case KindForStatement:
		if l := n.Attr.Loop; l != nil {
			if l.Unbounded() {
				sb.WriteString(" count=unbounded")
			} else {
				fmt.Fprintf(&sb, " count=%d", l.Count)
			}
			if l.Unroll {
				sb.WriteString(" [unroll]")
			} else {
				sb.WriteString(" [loop]")
			}
		}
	}
	if n.Attr.Precision != types.PrecisionNone {
		fmt.Fprintf(&sb, " %s", n.Attr.Precision)
	}
	if n.Scope.IsValid() {
		fmt.Fprintf(&sb, " scope=%d", n.Scope)
	}
	if n.Type != types.NoTypeID && cfg.Types != nil {
		fmt.Fprintf(&sb, " : %s", cfg.Types.Name(n.Type))
	}
	return sb.String()
}
