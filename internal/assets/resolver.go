package assets

import "errors"

// AssetResolver looks an asset up in the site's asset directory, if any,
// then among the built-in assets. Only a not-found result moves the lookup
// on; a bad name or an unreadable file in the asset directory is returned.
type AssetResolver struct {
	chain []AssetLoader
}

// NewAssetResolver builds the lookup chain. An empty dir means built-in
// assets only. A non-empty dir must pass NewFilesystemLoader.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if dir != "" {
		custom, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.chain = append(r.chain, custom)
	}
	r.chain = append(r.chain, NewEmbeddedLoader())
	return r, nil
}

// LoadStyle returns the first stylesheet named name along the chain.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.first(AssetLoader.LoadStyle, name)
}

// LoadTemplate returns the first page template named name along the chain.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.first(AssetLoader.LoadTemplate, name)
}

func (r *AssetResolver) first(load func(AssetLoader, string) (string, error), name string) (string, error) {
	var err error
	for _, loader := range r.chain {
		var content string
		content, err = load(loader, name)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrStyleNotFound) && !errors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}
	return "", err
}

// HasCustomLoader reports whether an asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.chain) > 1
}

var _ AssetLoader = (*AssetResolver)(nil)
