// Package page resolves which of the three pages a request is for and
// renders it after loading the service list.
package page

import (
	"fmt"
	"strings"
)

// Page identifies one of the rendered pages.
type Page int

const (
	List Page = iota + 1
	Admin
	Detail
)

func (p Page) String() string {
	switch p {
	case List:
		return "list"
	case Admin:
		return "admin"
	case Detail:
		return "detail"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

// Legacy file names the pages used to be served under.
const (
	legacyList   = "servicios.html"
	legacyAdmin  = "crudadmin.html"
	legacyDetail = "detalleserv.html"
)

// FromPath maps a legacy path to its page by substring. When a path
// names more than one page the first match in list, admin, detail order
// wins, so a single page is always chosen.
func FromPath(path string) (Page, bool) {
	switch {
	case strings.Contains(path, legacyList):
		return List, true
	case strings.Contains(path, legacyAdmin):
		return Admin, true
	case strings.Contains(path, legacyDetail):
		return Detail, true
	default:
		return 0, false
	}
}
