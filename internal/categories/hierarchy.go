package categories

import (
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
)

const pathSeparator = " > "

// Hierarchy is an immutable two-level category tree: roots with their children.
type Hierarchy struct {
	roots []apiclient.Category
}

// NewHierarchy keeps the server order of roots and children.
func NewHierarchy(roots []apiclient.Category) *Hierarchy {
	if roots == nil {
		roots = []apiclient.Category{}
	}
	return &Hierarchy{roots: roots}
}

func (h *Hierarchy) Roots() []apiclient.Category {
	if h == nil {
		return nil
	}
	return h.roots
}

func (h *Hierarchy) Len() int {
	if h == nil {
		return 0
	}
	return len(h.roots)
}

// FlatCategory is one row of the category dropdown.
type FlatCategory struct {
	ID           int64  `json:"id"`
	DisplayName  string `json:"displayName"`
	ParentID     *int64 `json:"parentId,omitempty"`
	Depth        int    `json:"depth"`
	ProductCount int    `json:"productCount"`
}

// Flatten walks the tree depth-first. A child's display name is prefixed with
// its direct parent's name.
func (h *Hierarchy) Flatten(lang enums.Lang) []FlatCategory {
	out := make([]FlatCategory, 0, h.Len())
	if h == nil {
		return out
	}
	return flatten(out, h.roots, "", nil, 0, lang)
}

func flatten(out []FlatCategory, nodes []apiclient.Category, parentName string, parentID *int64, depth int, lang enums.Lang) []FlatCategory {
	for _, node := range nodes {
		name := DisplayName(node, lang)
		display := name
		if parentName != "" {
			display = parentName + pathSeparator + name
		}
		row := FlatCategory{
			ID:           node.ID,
			DisplayName:  display,
			ParentID:     parentID,
			Depth:        depth,
			ProductCount: node.ProductCount,
		}
		if row.ParentID == nil {
			row.ParentID = node.ParentID
		}
		out = append(out, row)
		if len(node.Children) > 0 {
			id := node.ID
			out = flatten(out, node.Children, name, &id, depth+1, lang)
		}
	}
	return out
}

// Find returns the root or child with id.
func (h *Hierarchy) Find(id int64) (apiclient.Category, bool) {
	if h == nil {
		return apiclient.Category{}, false
	}
	for _, root := range h.roots {
		if root.ID == id {
			return root, true
		}
		for _, child := range root.Children {
			if child.ID == id {
				return child, true
			}
		}
	}
	return apiclient.Category{}, false
}

// ParentOf returns the root whose children contain id.
func (h *Hierarchy) ParentOf(id int64) (apiclient.Category, bool) {
	if h == nil {
		return apiclient.Category{}, false
	}
	for _, root := range h.roots {
		for _, child := range root.Children {
			if child.ID == id {
				return root, true
			}
		}
	}
	return apiclient.Category{}, false
}

// Selection describes the currently filtered category for the screen header.
type Selection struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsChild    bool   `json:"isChild"`
	ParentName string `json:"parentName,omitempty"`
}

// Selected resolves id against the tree. ok is false for unknown ids.
func (h *Hierarchy) Selected(id int64, lang enums.Lang) (Selection, bool) {
	if h == nil || id == 0 {
		return Selection{}, false
	}
	for _, root := range h.roots {
		if root.ID == id {
			return Selection{ID: id, Name: DisplayName(root, lang)}, true
		}
		for _, child := range root.Children {
			if child.ID == id {
				return Selection{
					ID:         id,
					Name:       DisplayName(child, lang),
					IsChild:    true,
					ParentName: DisplayName(root, lang),
				}, true
			}
		}
	}
	return Selection{}, false
}

// TotalProductCount adds the direct children's counts to the category's own.
func TotalProductCount(cat apiclient.Category) int {
	total := cat.ProductCount
	for _, child := range cat.Children {
		total += child.ProductCount
	}
	return total
}

// IsChildSelected reports whether selectedID is one of cat's children.
func IsChildSelected(cat apiclient.Category, selectedID int64) bool {
	if selectedID == 0 {
		return false
	}
	for _, child := range cat.Children {
		if child.ID == selectedID {
			return true
		}
	}
	return false
}

func HasChildren(cat apiclient.Category) bool {
	return len(cat.Children) > 0
}

func DisplayName(cat apiclient.Category, lang enums.Lang) string {
	if lang == enums.LangArabic && cat.NameAr != "" {
		return cat.NameAr
	}
	if cat.NameEn != "" {
		return cat.NameEn
	}
	return cat.NameAr
}
