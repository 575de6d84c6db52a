package main

import (
	"bufio"
	"io"
	"os"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/odtl/dl85/lib/trie"
)

// Tree is the JSON-friendly export of a solved trie.Best subtree: an
// internal node names its splitting attribute and both children; a leaf
// names its predicted class (and label, if one was supplied).
type Tree struct {
	Error float64 `json:"error"`
	Size  int     `json:"size"`

	Test  *int   `json:"test,omitempty"`
	Left  *Tree  `json:"left,omitempty"`
	Right *Tree  `json:"right,omitempty"`
	Class *int   `json:"class,omitempty"`
	Label string `json:"label,omitempty"`
}

// buildTree walks best into its exported form, attaching the class label
// recovered by dataset.Load alongside a leaf's raw class index.
func buildTree(best *trie.Best, labels []string) *Tree {
	if best == nil {
		return nil
	}
	out := &Tree{Error: best.Error, Size: best.Size}
	if best.IsLeaf() {
		class := best.Test
		out.Class = &class
		if class >= 0 && class < len(labels) {
			out.Label = labels[class]
		}
		return out
	}
	test := best.Test
	out.Test = &test
	out.Left = buildTree(best.Left, labels)
	out.Right = buildTree(best.Right, labels)
	return out
}

// writeTree serializes t to path, or to stdout when path is "" or "-".
func writeTree(path string, t *Tree) (err error) {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, ferr := os.Create(path)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		w = f
	}

	buffer := bufio.NewWriter(w)
	defer func() {
		if ferr := buffer.Flush(); err == nil && ferr != nil {
			err = ferr
		}
	}()
	return lowmemjson.Encode(&lowmemjson.ReEncoder{
		Out: buffer,

		Indent:                "\t",
		ForceTrailingNewlines: true,
		CompactIfUnder:        120,
	}, t)
}
