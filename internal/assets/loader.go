package assets

// AssetLoader returns the text of a stylesheet or page template by bare
// name: "default" reads styles/default.css or templates/default.html.
// Unknown names fail with ErrStyleNotFound or ErrTemplateNotFound and bad
// names with ErrInvalidAssetName.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind locates one family of assets inside a base directory.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// file is the slash-separated path of name relative to a base directory.
func (k kind) file(name string) string {
	return k.dir + "/" + name + k.ext
}
