package fs

import (
	"github.com/gobwas/glob"
)

// Find walks the disk's subtree and returns the paths of every node whose
// name matches the glob pattern, in traversal order.
func (d *Disk) Find(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var matches []string
	walk(d.Items(), g, &matches)
	return matches, nil
}

// Find walks the folder's subtree and returns matching paths.
func (d *Folder) Find(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var matches []string
	walk(d.Items(), g, &matches)
	return matches, nil
}

func walk(items []Node, g glob.Glob, matches *[]string) {
	for _, n := range items {
		if g.Match(n.Name()) {
			*matches = append(*matches, n.Path())
		}
		if sub, ok := n.(*Folder); ok {
			walk(sub.Items(), g, matches)
		}
	}
}
