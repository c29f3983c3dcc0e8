package doctree

import "fmt"

// BuildTree converts the flat, ordered block sequence into a single rooted
// tree. Two independent stacks drive the reconstruction: a header stack that
// persists for the whole document, and a list stack that resets on every
// non-list-item block.
//
// An unknown tag aborts the build; a malformed or future-schema input must
// not silently corrupt the tree.
func BuildTree(records []BlockRecord) (*Block, error) {
	root := NewRoot()
	parent := root
	parentStack := []*Block{root}
	var listStack []*Block
	prev := root

	for i := range records {
		rec := &records[i]

		if rec.Tag != TagListItem {
			listStack = listStack[:0]
		}

		var node *Block
		switch rec.Tag {
		case TagHeader:
			node = newBlock(rec)
			if node.Level > parent.Level {
				parent.AddChild(node)
				parentStack = append(parentStack, node)
			} else {
				// A header displaces every open header at its own level or
				// deeper, then nests under what remains.
				for len(parentStack) > 1 && parentStack[len(parentStack)-1].Level >= node.Level {
					parentStack = parentStack[:len(parentStack)-1]
				}
				parentStack[len(parentStack)-1].AddChild(node)
				parentStack = append(parentStack, node)
			}
			parent = node

		case TagListItem:
			node = newBlock(rec)
			switch {
			case prev.Tag == TagPara && prev.Level == node.Level:
				// A paragraph anchors a list at its own level.
				listStack = append(listStack, prev)
			case prev.Tag == TagListItem:
				if node.Level > prev.Level {
					listStack = append(listStack, prev)
				} else if node.Level < prev.Level {
					// Returning to a shallower level closes every open item
					// at that level or deeper, so an item's descendants are
					// always strictly deeper than the item itself.
					for len(listStack) > 0 {
						top := listStack[len(listStack)-1]
						listStack = listStack[:len(listStack)-1]
						if top.Level <= node.Level {
							break
						}
					}
				}
			}
			if len(listStack) > 0 {
				listStack[len(listStack)-1].AddChild(node)
			} else {
				parent.AddChild(node)
			}

		case TagPara:
			node = newBlock(rec)
			parent.AddChild(node)

		case TagTable:
			node = newTable(rec)
			parent.AddChild(node)

		default:
			return nil, fmt.Errorf("unsupported block type: %q", rec.Tag)
		}

		prev = node
	}

	return root, nil
}
