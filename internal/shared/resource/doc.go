// Package resource provides resource references and loading for applications.
//
// Resources are addressed as "namespace:path" (for example
// "clock:textures/icon.png") and read from an fs.FS laid out as
// <namespace>/<path>. Content types are sniffed rather than trusted from
// the file extension.
//
// Example Usage:
//
//	loader := resource.NewLoader(os.DirFS("resources"))
//	icon, err := loader.Icon(resource.MustParse("clock:icon.png"))
package resource
