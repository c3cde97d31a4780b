package model

import "sort"

// FolderNode is a folder placed in its rooted forest, with computed depth.
type FolderNode struct {
	Folder
	Level    int
	Children []*FolderNode
}

// BuildFolderForest builds the rooted forest for a flat list of folders by
// grouping on ParentID. Folders whose parent is nil or not present in the
// list become roots, and so does any folder whose parent chain loops back
// to itself: cycles are not producible through the store's write API, but
// a malformed list must still yield a forest that reaches every folder.
// Children and roots are ordered by SortOrder; Level is the distance from
// the node's root.
func BuildFolderForest(folders []Folder) []*FolderNode {
	nodes := make(map[string]*FolderNode, len(folders))
	for i := range folders {
		nodes[folders[i].ID] = &FolderNode{Folder: folders[i]}
	}

	var roots []*FolderNode
	for i := range folders {
		f := folders[i]
		node := nodes[f.ID]
		if pid := f.ParentID; pid != nil && *pid != f.ID {
			if parent, ok := nodes[*pid]; ok && !parentChainCycles(f, nodes) {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}

	for _, root := range roots {
		assignLevels(root, 0)
	}

	return roots
}

// parentChainCycles reports whether f's parent chain loops back to f
// itself. Such a folder cannot hang below its parent and is promoted to a
// root instead; folders dangling below a cycle keep their parent edge.
func parentChainCycles(f Folder, nodes map[string]*FolderNode) bool {
	seen := map[string]bool{f.ID: true}
	current := f
	for current.ParentID != nil {
		parent, ok := nodes[*current.ParentID]
		if !ok {
			return false
		}
		if parent.ID == f.ID {
			return true
		}
		if seen[parent.ID] {
			return false
		}
		seen[parent.ID] = true
		current = parent.Folder
	}
	return false
}

// assignLevels walks the built forest top-down. Cycle members were turned
// into roots, so the child edges form a proper forest here.
func assignLevels(node *FolderNode, level int) {
	node.Level = level
	for _, child := range node.Children {
		assignLevels(child, level+1)
	}
}

func sortNodes(nodes []*FolderNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].SortOrder < nodes[j].SortOrder
	})
}
