package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/onboardhq/onboard-mcp/scan"
)

type treeNode struct {
	children map[string]*treeNode
	isDir    bool
}

func (n *treeNode) child(name string, isDir bool) *treeNode {
	if n.children == nil {
		n.children = make(map[string]*treeNode)
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{isDir: isDir}
		n.children[name] = c
	}
	if isDir {
		c.isDir = true
	}
	return c
}

// Tree renders the document entries as an ASCII tree, directories with
// a trailing slash.
func (d *Document) Tree() string {
	root := &treeNode{isDir: true}
	for _, rec := range d.Entries {
		parts := strings.Split(rec.Path, "/")
		node := root
		for i, name := range parts {
			last := i == len(parts)-1
			isDir := !last || rec.Kind == scan.KindDir
			node = node.child(name, isDir)
		}
	}

	var lines []string
	var walk func(n *treeNode, prefix string)
	walk = func(n *treeNode, prefix string) {
		names := make([]string, 0, len(n.children))
		for name := range n.children {
			names = append(names, name)
		}
		sort.Strings(names)
		for i, name := range names {
			last := i == len(names)-1
			branch := "├── "
			childPrefix := prefix + "│   "
			if last {
				branch = "└── "
				childPrefix = prefix + "    "
			}
			child := n.children[name]
			if child.isDir {
				lines = append(lines, prefix+branch+name+"/")
				walk(child, childPrefix)
			} else {
				lines = append(lines, prefix+branch+name)
			}
		}
	}
	walk(root, "")

	if len(lines) == 0 {
		return "(no files)"
	}
	return strings.Join(lines, "\n")
}

// FormatForContext renders the document as a single text block suitable
// for dropping into an assistant context window: file tree, per-file
// metadata, and a by-extension grouping for retrieval. The file list is
// capped at maxFiles.
func (d *Document) FormatForContext(maxFiles int) string {
	if maxFiles <= 0 {
		maxFiles = 500
	}

	var b strings.Builder
	b.WriteString("# Codebase structure\n\n")
	b.WriteString(fmt.Sprintf("Root: %s\n\n", d.Root))
	b.WriteString("## File tree\n```\n")
	b.WriteString(d.Tree())
	b.WriteString("\n```\n\n")

	files := d.Files()
	b.WriteString(fmt.Sprintf("## File list (total: %d files)\n\n", d.FileCount))
	if d.Truncated {
		b.WriteString("(Index truncated at the configured file cap.)\n\n")
	}
	listed := files
	if len(listed) > maxFiles {
		listed = listed[:maxFiles]
		b.WriteString(fmt.Sprintf("(Showing first %d of %d files.)\n\n", maxFiles, len(files)))
	}
	for _, f := range listed {
		label := f.Language
		if label == "" {
			label = f.Ext
		}
		if f.Lines > 0 {
			b.WriteString(fmt.Sprintf("- %s [%s] (%d lines)\n", f.Path, label, f.Lines))
		} else {
			b.WriteString(fmt.Sprintf("- %s [%s]\n", f.Path, label))
		}
	}

	byExt := make(map[string][]string)
	for _, f := range files {
		key := f.Ext
		if key == "" {
			key = "(no ext)"
		}
		byExt[key] = append(byExt[key], f.Path)
	}
	exts := make([]string, 0, len(byExt))
	for ext := range byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	b.WriteString("\n## By extension\n")
	for _, ext := range exts {
		paths := byExt[ext]
		sample := paths
		if len(sample) > 10 {
			sample = sample[:10]
		}
		line := fmt.Sprintf("- %s: %s", ext, strings.Join(sample, ", "))
		if len(paths) > 10 {
			line += fmt.Sprintf(" ... (+%d more)", len(paths)-10)
		}
		b.WriteString(line + "\n")
	}

	if len(d.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("\n(%d entries were unreadable and skipped.)\n", len(d.Skipped)))
	}

	return b.String()
}
