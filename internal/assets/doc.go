// Package assets provides page templates and CSS styles for generated sites.
//
// Built-in assets are embedded in the binary. A site may add its own, or
// shadow a built-in one, from an asset directory:
//
//	{asset-path}/
//	├── styles/{name}.css       inlined into every page
//	└── templates/{name}.html   page layout with {{ Title }} and {{ Content }}
//
// AssetResolver checks the asset directory first and the built-ins second.
// Names are plain identifiers (letters, digits, '-' and '_') and files
// reached through symlinks must stay inside the asset directory.
package assets
