package cppon

import "strconv"

// reference.go implements path-token/pointer rewriting, reverse lookup
// by node address, and pointer-cycle detection. The
// rewrite walks the tree's structural edges (object members, array
// elements) only; pointer edges are never followed during the rewrite
// itself, only during IsPointerCyclic.

// PathEntry is one row of the side table produced by ResolvePaths: Node
// is the tree slot that was a path-token and is now an in-doc pointer;
// Path is the original textual path it held.
type PathEntry struct {
	Path string
	Node *Value
}

// ResolvePaths walks tree and replaces every path-token value in place
// with an in-doc pointer resolved against tree, returning a side table
// that RestorePaths can later use to revert the rewrite. Resolution
// failures (a path-token pointing nowhere) abort the walk and propagate.
func (e *Env) ResolvePaths(tree *Value) ([]PathEntry, error) {
	var entries []PathEntry
	if err := e.resolvePathsWalk(tree, tree, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (e *Env) resolvePathsWalk(root, node *Value, entries *[]PathEntry) error {
	switch node.kind {
	case KindPathToken:
		target, err := e.VisitConst(root, node.str)
		if err != nil {
			return err
		}
		path := node.str
		*node = Pointer(target)
		*entries = append(*entries, PathEntry{Path: path, Node: node})
	case KindObject:
		obj, _ := node.Object()
		for i := 0; i < obj.Len(); i++ {
			if err := e.resolvePathsWalk(root, obj.Value(i), entries); err != nil {
				return err
			}
		}
	case KindArray:
		arr, _ := node.Array()
		for i := 0; i < arr.Len(); i++ {
			v, _ := arr.At(i)
			if err := e.resolvePathsWalk(root, v, entries); err != nil {
				return err
			}
		}
	}
	return nil
}

// RestorePaths reverts every slot named in entries back to its original
// path-token. entries must have come from a single ResolvePaths call
// whose tree is still live; the side table outlives the rewrite only as
// long as the caller holds onto it.
func RestorePaths(entries []PathEntry) {
	for _, e := range entries {
		*e.Node = pathToken(e.Path)
	}
}

// FindObjectPath returns the first textual path, starting from tree,
// whose traversal reaches target, or "" if no such path exists. Used for
// diagnostics and as a flatten-printing fallback when no side table is
// available.
func FindObjectPath(tree *Value, target *Value) string {
	if tree == target {
		return "/"
	}
	return findObjectPathWalk(tree, "", target)
}

func findObjectPathWalk(node *Value, prefix string, target *Value) string {
	switch node.kind {
	case KindObject:
		obj, _ := node.Object()
		for i := 0; i < obj.Len(); i++ {
			child := obj.Value(i)
			path := prefix + "/" + obj.Key(i)
			if child == target {
				return path
			}
			if found := findObjectPathWalk(child, path, target); found != "" {
				return found
			}
		}
	case KindArray:
		arr, _ := node.Array()
		for i := 0; i < arr.Len(); i++ {
			child, _ := arr.At(i)
			path := prefix + "/" + strconv.Itoa(i)
			if child == target {
				return path
			}
			if found := findObjectPathWalk(child, path, target); found != "" {
				return found
			}
		}
	}
	return ""
}

// IsPointerCyclic reports whether pointer's pointed subtree reaches
// pointer itself via any pointer edge. A null pointer or a non-pointer
// value is never cyclic.
func IsPointerCyclic(pointer *Value) bool {
	if pointer.kind != KindPointer || pointer.ptr == nil {
		return false
	}
	visited := make(map[*Value]bool)
	return reachesPointer(pointer.ptr, pointer, visited)
}

func reachesPointer(node, target *Value, visited map[*Value]bool) bool {
	if node == target {
		return true
	}
	if visited[node] {
		return false
	}
	visited[node] = true
	switch node.kind {
	case KindObject:
		obj, _ := node.Object()
		for i := 0; i < obj.Len(); i++ {
			if reachesPointer(obj.Value(i), target, visited) {
				return true
			}
		}
	case KindArray:
		arr, _ := node.Array()
		for i := 0; i < arr.Len(); i++ {
			v, _ := arr.At(i)
			if reachesPointer(v, target, visited) {
				return true
			}
		}
	case KindPointer:
		if node.ptr != nil {
			return reachesPointer(node.ptr, target, visited)
		}
	}
	return false
}
