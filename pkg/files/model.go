package files

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the node type.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindImage  Kind = "image"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// HasContent reports whether nodes of this kind carry a blob.
func (k Kind) HasContent() bool {
	return k == KindFile || k == KindImage
}

// RootID is the parent id of nodes placed at the top level.
const RootID = "0"

// IsRoot reports whether parentID designates the top level.
func IsRoot(parentID string) bool {
	return parentID == "" || parentID == RootID
}

// PageSize is the number of nodes returned per List page.
const PageSize = 20

// FileNode is a folder or file owned by a single user.
type FileNode struct {
	ID        string `json:"id"`
	OwnerID   string `json:"userId"`
	Name      string `json:"name"`
	Kind      Kind   `json:"type"`
	ParentID  string `json:"parentId"`
	IsPublic  bool   `json:"isPublic"`
	LocalPath string `json:"-"`
}

// MarshalJSON renders a root parent as the number 0, any other parent as its id.
func (n FileNode) MarshalJSON() ([]byte, error) {
	type plain FileNode
	var parent any = n.ParentID
	if IsRoot(n.ParentID) {
		parent = 0
	}
	return json.Marshal(struct {
		plain
		ParentID any `json:"parentId"`
	}{plain: plain(n), ParentID: parent})
}

// Page is one slice of a List result.
type Page struct {
	Items []FileNode
	Total int64
	Page  int
}

// Content is a resolved blob ready to be served.
type Content struct {
	Name        string
	ContentType string
	Data        []byte
}

// DerivativeKey is the blob key of an image's resized variant.
func DerivativeKey(fileID string, width int) string {
	return fmt.Sprintf("%s_%d", fileID, width)
}

// DefaultDerivativeWidths are the widths rendered for every uploaded image.
var DefaultDerivativeWidths = []int{500, 250, 100}

// ParentRef accepts a parent id sent either as a string or as a number.
// Clients commonly send 0 for the root.
type ParentRef string

// UnmarshalJSON implements json.Unmarshaler.
func (p *ParentRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = ParentRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parentId must be a string or a number: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil && i == 0 {
		*p = RootID
		return nil
	}
	*p = ParentRef(n.String())
	return nil
}
