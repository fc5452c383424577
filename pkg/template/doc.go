// Package template substitutes context variables into text.
//
// Templates use Go text/template syntax with one addition: every context
// variable is also callable by its bare name, so both of these render the
// project name:
//
//	{{ project_name }}
//	{{ .project_name }}
//
// Rendering is strict. A name that is not in the context fails the whole
// render instead of producing an empty string. Helpers are applied with
// pipelines:
//
//	{{ project_name | snake }}
//	{{ tags | join ", " }}
package template
