package quickthought

import "embed"

// TemplateFS contains the embedded HTML templates used for rendering the widget. These templates
// are organized in a directory structure that separates layouts, pages, and partial views.
//
//go:embed templates/*
var TemplateFS embed.FS

// StaticFS contains the embedded static assets, the script forwarding input events and the styling
// of the widget.
//
//go:embed static/*
var StaticFS embed.FS
