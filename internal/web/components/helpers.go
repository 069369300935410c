// Package components holds the HTML views of the admin front. Views are
// written as .templ sources; the _templ.go files are generated from them.
package components

//go:generate go run digiparc/cmd/digiparc templ --base ../../.. .

import (
	"strconv"

	"digiparc/internal/web/appcore"
)

const (
	// ContentSelector is the id of every page's root element. Live
	// navigation replaces that element in place.
	ContentSelector = "page-content"
	siteName        = "digiparc"
)

type navLink struct {
	href    string
	label   string
	section appcore.Section
}

var navLinks = []navLink{
	{href: "/formation/new", label: "Formations", section: appcore.SectionFormations},
	{href: "/subscriber/new", label: "Subscribers", section: appcore.SectionSubscribers},
	{href: "/inscription/new", label: "Inscriptions", section: appcore.SectionInscriptions},
	{href: "/login", label: "Account", section: appcore.SectionAccount},
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func numberValue(value int) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value)
}

func idValue(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
