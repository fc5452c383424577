// Package prompt builds the render context for a template: it asks for the
// project name and every configured prompt, in order, taking values from
// --set overrides, interactive answers, user-config defaults and prompt
// defaults.
package prompt
