package inspect

import (
	"fmt"
	"strings"

	"github.com/nodemap-go/nodemap/pkg/nodemap"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowMetadata includes kind, access, and range information
	ShowMetadata bool

	// ShowToolTips adds the tool tip below each node
	ShowToolTips bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowMetadata: true,
		IndentWidth:  2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a value with its unit.
func (f *Formatter) FormatValue(value, unit string) string {
	if unit == "" {
		return value
	}
	return value + " " + unit
}

// FormatAccess formats an access mode for display.
func FormatAccess(mode nodemap.AccessMode) string {
	switch mode {
	case nodemap.RW:
		return "read-write"
	case nodemap.RO:
		return "read-only"
	case nodemap.WO:
		return "write-only"
	case nodemap.NA:
		return "not available"
	case nodemap.NI:
		return "not implemented"
	default:
		return fmt.Sprintf("access(%d)", mode)
	}
}

// FormatNode formats a single node as one line, plus the tool tip when
// enabled.
func (f *Formatter) FormatNode(depth int, info NodeInfo) string {
	var sb strings.Builder
	sb.WriteString(f.Indent(depth, info.Name))

	switch {
	case info.Kind == nodemap.KindCommand:
		sb.WriteString(" [command]")
	case info.Err != nil:
		sb.WriteString(": <" + info.Err.Error() + ">")
	case info.Access.CanRead():
		sb.WriteString(": " + f.FormatValue(info.Value, info.Unit))
	}

	if f.ShowMetadata {
		meta := []string{info.Kind.String(), FormatAccess(info.Access)}
		if info.Min != "" || info.Max != "" {
			meta = append(meta, fmt.Sprintf("%s..%s", info.Min, info.Max))
		}
		if len(info.Entries) > 0 {
			meta = append(meta, strings.Join(info.Entries, "|"))
		}
		if len(info.Selected) > 0 {
			meta = append(meta, "selects "+strings.Join(info.Selected, ","))
		}
		sb.WriteString(" (" + strings.Join(meta, ", ") + ")")
	}
	sb.WriteString("\n")

	if f.ShowToolTips && info.ToolTip != "" {
		sb.WriteString(f.Indent(depth+1, "# "+info.ToolTip))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatTree formats a category tree with features before subcategories.
func (f *Formatter) FormatTree(tree *CategoryInfo) string {
	var sb strings.Builder
	f.formatCategory(&sb, 0, tree)
	return sb.String()
}

func (f *Formatter) formatCategory(sb *strings.Builder, depth int, c *CategoryInfo) {
	sb.WriteString(f.Indent(depth, c.Name+"/"))
	if c.Access != nodemap.RO {
		sb.WriteString(" (" + FormatAccess(c.Access) + ")")
	}
	sb.WriteString("\n")

	if len(c.Features) == 0 && len(c.Subcategories) == 0 {
		sb.WriteString(f.Indent(depth+1, "(empty)\n"))
		return
	}
	for _, n := range c.Features {
		sb.WriteString(f.FormatNode(depth+1, n))
	}
	for i := range c.Subcategories {
		f.formatCategory(sb, depth+1, &c.Subcategories[i])
	}
}
