// Package view renders documentation pages with html/template.
//
// Templates and static assets are embedded. Page data is assembled in Go
// (see ItemView, ParameterRow, ConstructorView and EnumMemberView) so the
// templates only lay out pre-rendered fragments:
//
//	layout.gohtml     page shell: head, nav drawer, sidebar, content slot
//	sidebar.gohtml    collapsible sidebar sections
//	partials.gohtml   doc sections, parameter table, members, enum members
//	readme.gohtml     README content
//	item.gohtml       API item content
//	error.gohtml      page-level error
package view
